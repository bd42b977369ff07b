package chart

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/venuekit/seating-chart/internal/model"
	"github.com/venuekit/seating-chart/internal/topology"
)

// Segmenter groups a row's seats by booking identity and emits the
// contiguous runs each booking occupies. One engine serves both input
// modes: with obstruction awareness on, runs bridge registered pillar
// gaps and are re-validated against section boundaries; with it off
// (the pre-grouped legacy mode) adjacency is consecutive numbering only.
type Segmenter struct {
	topo  *topology.Topology
	aware bool
}

// NewSegmenter builds a segmenter. topo may be nil only when aware is
// false; the legacy mode never consults the topology.
func NewSegmenter(topo *topology.Topology, aware bool) *Segmenter {
	if topo == nil {
		topo = topology.New(nil, nil)
	}
	return &Segmenter{topo: topo, aware: aware}
}

// SegmentAll segments every row and returns rows ordered by label so the
// rendering collaborator receives a stable sequence.
func (sg *Segmenter) SegmentAll(rows map[string][]model.NormalizedSeat) []model.RowSegments {
	labels := make([]string, 0, len(rows))
	for row := range rows {
		labels = append(labels, row)
	}
	sort.Strings(labels)

	out := make([]model.RowSegments, 0, len(labels))
	for _, row := range labels {
		out = append(out, model.RowSegments{Row: row, Segments: sg.SegmentRow(row, rows[row])})
	}
	return out
}

// SegmentRow converts one row's seats into segments. Seats are grouped
// by booking, each group is sorted by seat number, runs are accumulated
// under the adjacency rule, and each candidate run is then partitioned
// wherever its seats straddle a section boundary. Output is ordered by
// start seat (booking id breaks ties) so repeated runs over the same
// input are identical.
func (sg *Segmenter) SegmentRow(row string, seats []model.NormalizedSeat) []model.Segment {
	groups, order := groupByBooking(seats)

	var segments []model.Segment
	for _, bookingID := range order {
		group := groups[bookingID]
		// Stable sort: two seats cannot legitimately share a number
		// within one booking, but if they do both are retained in
		// normalizer insertion order.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].SeatNumber < group[j].SeatNumber
		})
		for _, run := range sg.splitRuns(row, group) {
			segments = append(segments, sg.emit(row, run)...)
		}
	}

	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].StartSeat != segments[j].StartSeat {
			return segments[i].StartSeat < segments[j].StartSeat
		}
		return segments[i].BookingID < segments[j].BookingID
	})
	return segments
}

// splitRuns scans a booking's sorted seats and accumulates runs. A seat
// extends the current run when its number is exactly one past the
// previous seat, or when the gap between the two exactly matches a
// registered pillar span (obstruction-aware mode only).
func (sg *Segmenter) splitRuns(row string, group []model.NormalizedSeat) [][]model.NormalizedSeat {
	var runs [][]model.NormalizedSeat
	var run []model.NormalizedSeat
	for _, seat := range group {
		if len(run) == 0 {
			run = append(run, seat)
			continue
		}
		prev := run[len(run)-1].SeatNumber
		adjacent := seat.SeatNumber == prev+1 ||
			(sg.aware && sg.topo.IsObstructedGap(row, prev, seat.SeatNumber))
		if adjacent {
			run = append(run, seat)
			continue
		}
		runs = append(runs, run)
		run = []model.NormalizedSeat{seat}
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

// emit turns one candidate run into output segments. In obstruction-aware
// mode the run is re-validated against the row's sections: seats whose
// number is not addressable at all are dropped, and when the remaining
// seats span more than one section the run is partitioned into one
// segment per contiguous same-section sub-run, each tagged multi-segment
// and carrying the candidate's full span as its original range.
func (sg *Segmenter) emit(row string, run []model.NormalizedSeat) []model.Segment {
	if len(run) == 0 {
		return nil
	}
	span := model.SeatSpan{Start: run[0].SeatNumber, End: run[len(run)-1].SeatNumber}

	if !sg.aware {
		return []model.Segment{buildSegment(row, run, false, nil)}
	}

	var parts [][]model.NormalizedSeat
	var part []model.NormalizedSeat
	lastSection := 0
	for _, seat := range run {
		sec := sg.topo.SectionIndex(row, seat.SeatNumber)
		if sec < 0 {
			// Recorded against a number that physically does not
			// exist (sold across a staircase); degrade to fewer
			// seats shown rather than fail.
			continue
		}
		if len(part) > 0 && sec != lastSection {
			parts = append(parts, part)
			part = nil
		}
		part = append(part, seat)
		lastSection = sec
	}
	if len(part) > 0 {
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return nil
	}
	if len(parts) == 1 {
		return []model.Segment{buildSegment(row, parts[0], false, nil)}
	}
	out := make([]model.Segment, 0, len(parts))
	for _, p := range parts {
		out = append(out, buildSegment(row, p, true, &span))
	}
	return out
}

func buildSegment(row string, seats []model.NormalizedSeat, multi bool, original *model.SeatSpan) model.Segment {
	seg := model.Segment{
		Row:            row,
		BookingID:      seats[0].BookingID,
		Day:            seats[0].Day,
		Event:          seats[0].Event,
		DisplayName:    seats[0].DisplayName,
		StartSeat:      seats[0].SeatNumber,
		EndSeat:        seats[len(seats)-1].SeatNumber,
		IsConnected:    len(seats) > 1,
		IsMultiSegment: multi,
		OriginalRange:  original,
	}
	for _, s := range seats {
		seg.MemberSeatIDs = append(seg.MemberSeatIDs, s.SeatID())
		seg.MemberRecordIDs = append(seg.MemberRecordIDs, s.RecordID)
	}
	return seg
}

func groupByBooking(seats []model.NormalizedSeat) (map[string][]model.NormalizedSeat, []string) {
	groups := make(map[string][]model.NormalizedSeat)
	var order []string
	for _, s := range seats {
		if _, ok := groups[s.BookingID]; !ok {
			order = append(order, s.BookingID)
		}
		groups[s.BookingID] = append(groups[s.BookingID], s)
	}
	return groups, order
}

// GroupBookingSeats converts pre-grouped legacy bookings into the
// row-grouped seat shape the segmenter consumes. Seat locations are
// rendering identities ("C32"); unparseable locations are skipped and
// counted. The group name stands in for the booking identity and the
// display name, and no day/event metadata exists in this mode.
func GroupBookingSeats(groups []model.GroupBooking) (map[string][]model.NormalizedSeat, int) {
	rows := make(map[string][]model.NormalizedSeat)
	skipped := 0
	for _, g := range groups {
		for _, loc := range g.SeatLocations {
			row, num, ok := splitSeatID(loc)
			if !ok {
				skipped++
				continue
			}
			rows[row] = append(rows[row], model.NormalizedSeat{
				Row:         row,
				SeatNumber:  num,
				BookingID:   g.GroupName,
				DisplayName: g.GroupName,
			})
		}
	}
	return rows, skipped
}

// splitSeatID splits "C32" into row "C" and number 32. The row label is
// the leading run of non-digit characters.
func splitSeatID(id string) (string, int, bool) {
	i := strings.IndexFunc(id, unicode.IsDigit)
	if i <= 0 {
		return "", 0, false
	}
	num, err := strconv.Atoi(id[i:])
	if err != nil || num < 0 {
		return "", 0, false
	}
	return id[:i], num, true
}
