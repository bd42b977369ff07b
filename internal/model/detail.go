package model

// DetailKind distinguishes the three shapes a detail view can take.
type DetailKind string

const (
	DetailNone  DetailKind = "none"  // no selection, or the selection is stale
	DetailSeat  DetailKind = "seat"  // a single non-connected seat
	DetailGroup DetailKind = "group" // a connected run, possibly re-aggregated
)

// DetailView is the projection of the current selection for display.
// A group view reports the booking's full addressable seat set as a
// compressed range string ("38-39, 42-43") plus the true seat count;
// a single-seat view reports the seat's own identifying fields.
type DetailView struct {
	Kind        DetailKind `json:"kind"`
	Row         string     `json:"row,omitempty"`
	BookingID   string     `json:"booking_id,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Day         string     `json:"day,omitempty"`
	Event       string     `json:"event,omitempty"`
	SeatCount   int        `json:"seat_count,omitempty"`
	SeatRange   string     `json:"seat_range,omitempty"`
	SeatNumber  int        `json:"seat_number,omitempty"`
	RecordID    string     `json:"record_id,omitempty"`
}

// NoSelection is the detail view used whenever nothing is selected or a
// previously selected segment is no longer rendered.
func NoSelection() DetailView { return DetailView{Kind: DetailNone} }
