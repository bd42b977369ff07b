package model

// FilterKey narrows the chart to one day and/or event type. The empty
// string in either position means "match all". Keys compare by value, so
// a FilterKey is usable directly as a map key.
type FilterKey struct {
	Day   string `json:"day"`
	Event string `json:"event"`
}

// Matches reports whether a seat passes the filter.
func (k FilterKey) Matches(s NormalizedSeat) bool {
	return (k.Day == "" || s.Day == k.Day) && (k.Event == "" || s.Event == k.Event)
}

// IsZero reports whether the key applies no narrowing at all.
func (k FilterKey) IsZero() bool { return k.Day == "" && k.Event == "" }

// Segment is one contiguous-or-pillar-bridged run of seats belonging to
// one booking within one section of one row.
//
// Fields:
//  Row            – row label.
//  BookingID      – booking identity the run belongs to.
//  Day, Event     – labels inherited from the member seats; used to
//                   re-aggregate a booking split across sections.
//  DisplayName    – account or group name of the booking.
//  StartSeat      – first seat number of the run (inclusive).
//  EndSeat        – last seat number of the run (inclusive).
//  MemberSeatIDs  – rendering identities of the addressable seats in the
//                   run, ascending; pillar numbers are not members.
//  MemberRecordIDs – source record identifiers parallel to MemberSeatIDs.
//  IsConnected    – true iff the run has more than one addressable seat.
//  IsMultiSegment – true when this segment is one physical piece of a
//                   booking whose span was broken by a section boundary.
//  OriginalRange  – the booking's overall requested span; set only when
//                   IsMultiSegment is true.
type Segment struct {
	Row             string    `json:"row"`
	BookingID       string    `json:"booking_id"`
	Day             string    `json:"day"`
	Event           string    `json:"event"`
	DisplayName     string    `json:"display_name"`
	StartSeat       int       `json:"start_seat"`
	EndSeat         int       `json:"end_seat"`
	MemberSeatIDs   []string  `json:"member_seat_ids"`
	MemberRecordIDs []string  `json:"member_record_ids,omitempty"`
	IsConnected     bool      `json:"is_connected"`
	IsMultiSegment  bool      `json:"is_multi_segment"`
	OriginalRange   *SeatSpan `json:"original_range,omitempty"`
}

// SeatCount returns the number of addressable seats in the segment.
func (s Segment) SeatCount() int { return len(s.MemberSeatIDs) }

// RowSegments pairs a row label with its emitted segments, preserving the
// chart's row ordering for the rendering collaborator.
type RowSegments struct {
	Row      string    `json:"row"`
	Segments []Segment `json:"segments"`
}

// GroupBooking is the simpler alternate input shape: a pre-grouped block
// of seats with no per-seat day/event/account metadata. It bypasses the
// normalizer and filter layer and is segmented by consecutive numbering
// only, grouped by GroupName.
type GroupBooking struct {
	GroupName     string   `json:"group_name"`
	SeatCount     int      `json:"seat_count"`
	SeatLocations []string `json:"seat_locations"` // seat IDs, e.g. "C32"
}
