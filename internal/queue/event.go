// Package queue defines message payloads exchanged over the message broker.
package queue

// ChartQueueName is the durable queue chart events are published to.
const ChartQueueName = "chart.events"

// Event kinds carried in ChartEvent.Kind.
const (
	KindReloaded   = "chart.reloaded"
	KindRecomputed = "chart.recomputed"
	KindSelection  = "chart.selection"
)

// ChartEvent is published after a chart reaction completes. It carries
// enough for downstream consumers to log or trigger analytics without
// querying the chart service: which hall reacted, the active filter and
// the shape of the derived output. Selection events additionally carry
// the selected booking's summary.
type ChartEvent struct {
	Kind         string `json:"kind"`
	HallID       uint64 `json:"hall_id"`
	Day          string `json:"day,omitempty"`
	Event        string `json:"event,omitempty"`
	RowCount     int    `json:"row_count"`
	SegmentCount int    `json:"segment_count"`
	BookingID    string `json:"booking_id,omitempty"`
	SeatCount    int    `json:"seat_count,omitempty"`
	SeatRange    string `json:"seat_range,omitempty"`
	At           string `json:"at"`
}
