package model

import "strconv"

// RawRecord is one flat booking record as delivered by the data-fetch
// collaborator. Fields are keyed by dotted path names and values arrive
// as whatever the upstream feed produced (strings, JSON numbers), so the
// map is deliberately loose; the normalizer in internal/chart is the only
// place that interprets it.
type RawRecord map[string]any

// Dotted field paths recognised on a RawRecord. Row and seat number are
// required; everything else is optional and defaults to the empty string.
const (
	FieldRow       = "seat.row"      // row label, e.g. "C"
	FieldSeatNum   = "seat.number"   // seat number, may be a float-formatted string
	FieldDay       = "booking.day"   // day label, e.g. "Day 1 - Friday"
	FieldEvent     = "booking.event" // event-type label, e.g. "Rodeo"
	FieldRecordID  = "record.id"     // unique identifier of this record
	FieldBookingID = "booking.id"    // owning booking identifier (optional)
	FieldAccount   = "account.name"  // account / group display name
)

// NormalizedSeat is a validated, typed seat derived from a RawRecord.
//
// Fields:
//  Row         – row label the seat belongs to.
//  SeatNumber  – non-negative seat number within the row.
//  Day         – day label used by the filter layer.
//  Event       – event-type label used by the filter layer.
//  RecordID    – identifier of the source record.
//  BookingID   – owning booking; synthetic per-record value when the
//                source record carried none, so unrelated singleton
//                sales never merge into one group.
//  DisplayName – account or group name shown in detail views.
type NormalizedSeat struct {
	Row         string `json:"row"`
	SeatNumber  int    `json:"seat_number"`
	Day         string `json:"day"`
	Event       string `json:"event"`
	RecordID    string `json:"record_id"`
	BookingID   string `json:"booking_id"`
	DisplayName string `json:"display_name"`
}

// SeatID returns the rendering identity of the seat: row label followed
// directly by the seat number, no separator. Assumed unique within a row.
func (s NormalizedSeat) SeatID() string {
	return SeatID(s.Row, s.SeatNumber)
}

// SeatID builds the row+number identity used for rendered seat elements.
func SeatID(row string, number int) string {
	return row + strconv.Itoa(number)
}
