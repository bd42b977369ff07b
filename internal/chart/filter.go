package chart

import "github.com/venuekit/seating-chart/internal/model"

// Filter narrows normalized seats to those matching the day and event
// labels; the empty string in either position matches everything. Rows
// left empty by the narrowing are dropped from the output entirely. The
// function is pure: the input map is never mutated and the result is a
// fresh map even when no filter applies.
func Filter(rows map[string][]model.NormalizedSeat, day, event string) map[string][]model.NormalizedSeat {
	key := model.FilterKey{Day: day, Event: event}
	out := make(map[string][]model.NormalizedSeat, len(rows))
	for row, seats := range rows {
		var kept []model.NormalizedSeat
		for _, s := range seats {
			if key.Matches(s) {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			out[row] = kept
		}
	}
	return out
}
