package chart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/venuekit/seating-chart/internal/model"
	"github.com/venuekit/seating-chart/internal/topology"
)

// Project builds the detail view for a clicked segment. A multi-segment
// selection is re-aggregated: every currently rendered segment sharing
// the clicked segment's (booking, row, day, event) tuple contributes its
// addressable seats, the union is deduplicated and sorted, and the view
// reports the union's count and compressed range. A single-seat
// selection reports the seat's own fields directly.
func Project(topo *topology.Topology, rendered []model.RowSegments, clicked model.Segment) model.DetailView {
	if !clicked.IsConnected && len(clicked.MemberSeatIDs) == 1 {
		view := model.DetailView{
			Kind:        model.DetailSeat,
			Row:         clicked.Row,
			BookingID:   clicked.BookingID,
			DisplayName: clicked.DisplayName,
			Day:         clicked.Day,
			Event:       clicked.Event,
			SeatCount:   1,
			SeatNumber:  clicked.StartSeat,
		}
		if len(clicked.MemberRecordIDs) > 0 {
			view.RecordID = clicked.MemberRecordIDs[0]
		}
		return view
	}

	var numbers []int
	if clicked.IsMultiSegment {
		for _, rs := range rendered {
			if rs.Row != clicked.Row {
				continue
			}
			for _, seg := range rs.Segments {
				if seg.BookingID == clicked.BookingID && seg.Day == clicked.Day && seg.Event == clicked.Event {
					numbers = append(numbers, topo.MemberSeats(seg.Row, seg.StartSeat, seg.EndSeat)...)
				}
			}
		}
	} else {
		numbers = topo.MemberSeats(clicked.Row, clicked.StartSeat, clicked.EndSeat)
	}
	numbers = dedupSorted(numbers)

	return model.DetailView{
		Kind:        model.DetailGroup,
		Row:         clicked.Row,
		BookingID:   clicked.BookingID,
		DisplayName: clicked.DisplayName,
		Day:         clicked.Day,
		Event:       clicked.Event,
		SeatCount:   len(numbers),
		SeatRange:   CompressRange(numbers),
	}
}

// CompressRange renders sorted seat numbers as a compact range string:
// adjacent numbers merge into "start-end" tokens, isolated numbers stand
// alone, and tokens are joined with ", ". {38,39,42,43} → "38-39, 42-43".
func CompressRange(numbers []int) string {
	if len(numbers) == 0 {
		return ""
	}
	var tokens []string
	start, end := numbers[0], numbers[0]
	flush := func() {
		if start == end {
			tokens = append(tokens, strconv.Itoa(start))
		} else {
			tokens = append(tokens, strconv.Itoa(start)+"-"+strconv.Itoa(end))
		}
	}
	for _, n := range numbers[1:] {
		if n == end+1 {
			end = n
			continue
		}
		flush()
		start, end = n, n
	}
	flush()
	return strings.Join(tokens, ", ")
}

func dedupSorted(numbers []int) []int {
	if len(numbers) == 0 {
		return numbers
	}
	sort.Ints(numbers)
	out := numbers[:1]
	for _, n := range numbers[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}
