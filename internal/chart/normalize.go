// Package chart contains the seating-chart core: record normalization,
// day/event filtering, the booking segmentation engine, the memoizing
// result cache, the selection projector, and the reactive Engine that
// owns the shared state and fans derived state out to subscribers.
package chart

import (
	"math"
	"strconv"

	"github.com/venuekit/seating-chart/internal/model"
)

// Normalize converts raw flat records into row-grouped, validated seats.
// Records missing a row label or carrying an unparseable seat number are
// skipped and counted; a bad record never fails the batch. The returned
// map is keyed by row label; order within a row is insertion order and
// carries no meaning, the segmenter re-sorts.
func Normalize(raw []model.RawRecord) (map[string][]model.NormalizedSeat, int) {
	rows := make(map[string][]model.NormalizedSeat)
	skipped := 0
	for _, rec := range raw {
		row := stringField(rec, model.FieldRow)
		num, ok := parseSeatNumber(rec[model.FieldSeatNum])
		if row == "" || !ok {
			skipped++
			continue
		}
		recordID := stringField(rec, model.FieldRecordID)
		bookingID := stringField(rec, model.FieldBookingID)
		if bookingID == "" {
			// A seat with no owning booking is its own singleton
			// booking. The identity is derived from the record so
			// unrelated singleton sales never merge.
			bookingID = syntheticBookingID(recordID, row, num)
		}
		rows[row] = append(rows[row], model.NormalizedSeat{
			Row:         row,
			SeatNumber:  num,
			Day:         stringField(rec, model.FieldDay),
			Event:       stringField(rec, model.FieldEvent),
			RecordID:    recordID,
			BookingID:   bookingID,
			DisplayName: stringField(rec, model.FieldAccount),
		})
	}
	return rows, skipped
}

// parseSeatNumber accepts the seat number in whatever shape the feed
// delivered it. String input is parsed as a floating-point value first
// and then truncated, reproducing the upstream feed's conversion order;
// "34.0" therefore yields 34. Non-finite and negative results are
// rejected rather than propagated into sorting and adjacency.
func parseSeatNumber(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case string:
		if x == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = x
	case int:
		f = float64(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return int(f), true
}

func stringField(rec model.RawRecord, key string) string {
	if v, ok := rec[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func syntheticBookingID(recordID, row string, num int) string {
	if recordID != "" {
		return "rec:" + recordID
	}
	return "seat:" + model.SeatID(row, num)
}
