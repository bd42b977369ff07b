package model

// Pillar is a registered obstruction occupying an inclusive span of seat
// numbers within one row. Seats inside the span are never sold, but their
// numbers still occupy the row's numbering sequence, so a booking on both
// sides of a pillar is physically one connected block.
//
// Fields:
//  Row   – row label the pillar sits in.
//  Start – first seat number covered by the pillar (inclusive).
//  End   – last seat number covered by the pillar (inclusive).
type Pillar struct {
	Row   string `json:"row"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SeatSpan is an inclusive range of seat numbers.
type SeatSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// RowSection declares one structurally contiguous span of addressable
// seats within a row. Rows broken by staircases or layout breaks register
// one RowSection per piece; runs of seats never bridge two sections even
// when their numbers would otherwise line up. Rows with no registered
// sections are treated as a single contiguous section.
type RowSection struct {
	Row  string   `json:"row"`
	Span SeatSpan `json:"span"`
}
