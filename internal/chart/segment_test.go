package chart

import (
	"reflect"
	"testing"

	"github.com/venuekit/seating-chart/internal/model"
	"github.com/venuekit/seating-chart/internal/topology"
)

func TestSegmentRowConsecutiveRun(t *testing.T) {
	sg := NewSegmenter(topology.New(nil, nil), true)
	seats := []model.NormalizedSeat{
		seat("C", 32, "Day 1 - Friday", "Rodeo", "G1"),
		seat("C", 33, "Day 1 - Friday", "Rodeo", "G1"),
		seat("C", 34, "Day 1 - Friday", "Rodeo", "G1"),
		seat("C", 35, "Day 1 - Friday", "Rodeo", "G1"),
	}

	segs := sg.SegmentRow("C", seats)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1: %+v", len(segs), segs)
	}
	s := segs[0]
	if s.StartSeat != 32 || s.EndSeat != 35 || !s.IsConnected || s.SeatCount() != 4 {
		t.Fatalf("unexpected segment: %+v", s)
	}
	if s.IsMultiSegment || s.OriginalRange != nil {
		t.Fatalf("plain run must not be multi-segment: %+v", s)
	}
}

func TestSegmentRowAdjacentBookingsNeverMerge(t *testing.T) {
	sg := NewSegmenter(topology.New(nil, nil), true)
	seats := []model.NormalizedSeat{
		seat("C", 32, "d", "e", "G1"),
		seat("C", 33, "d", "e", "G1"),
		seat("C", 34, "d", "e", "G1"),
		seat("C", 35, "d", "e", "G1"),
		seat("C", 36, "d", "e", "G2"),
	}

	segs := sg.SegmentRow("C", seats)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segs), segs)
	}
	if segs[0].BookingID != "G1" || segs[0].EndSeat != 35 {
		t.Fatalf("first segment wrong: %+v", segs[0])
	}
	if segs[1].BookingID != "G2" || segs[1].StartSeat != 36 || segs[1].IsConnected {
		t.Fatalf("second segment wrong: %+v", segs[1])
	}
}

func TestSegmentRowBridgesPillarGap(t *testing.T) {
	topo := topology.New([]model.Pillar{{Row: "E", Start: 40, End: 41}}, nil)
	sg := NewSegmenter(topo, true)
	seats := []model.NormalizedSeat{
		seat("E", 38, "d", "e", "G1"),
		seat("E", 39, "d", "e", "G1"),
		seat("E", 42, "d", "e", "G1"),
		seat("E", 43, "d", "e", "G1"),
	}

	segs := sg.SegmentRow("E", seats)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1 bridged run: %+v", len(segs), segs)
	}
	s := segs[0]
	if s.StartSeat != 38 || s.EndSeat != 43 {
		t.Fatalf("bridged span wrong: %+v", s)
	}
	if s.SeatCount() != 4 {
		t.Fatalf("addressable count = %d, want 4 (pillar seats are not members)", s.SeatCount())
	}
	members := topo.MemberSeats("E", s.StartSeat, s.EndSeat)
	if got := CompressRange(members); got != "38-39, 42-43" {
		t.Fatalf("display range = %q, want %q", got, "38-39, 42-43")
	}
}

func TestSegmentRowDoesNotBridgeUnregisteredGap(t *testing.T) {
	sg := NewSegmenter(topology.New(nil, nil), true)
	seats := []model.NormalizedSeat{
		seat("E", 38, "d", "e", "G1"),
		seat("E", 39, "d", "e", "G1"),
		seat("E", 42, "d", "e", "G1"),
		seat("E", 43, "d", "e", "G1"),
	}

	segs := sg.SegmentRow("E", seats)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2 (no pillar registered): %+v", len(segs), segs)
	}
}

func TestSegmentRowSectionBoundarySplit(t *testing.T) {
	// Pillar-shaped gap at 45, but the row's sections end at 44 and
	// resume at 46: the staircase must never be bridged even though the
	// numbering lines up.
	topo := topology.New(
		[]model.Pillar{{Row: "G", Start: 45, End: 45}},
		[]model.RowSection{
			{Row: "G", Span: model.SeatSpan{Start: 1, End: 44}},
			{Row: "G", Span: model.SeatSpan{Start: 46, End: 80}},
		},
	)
	sg := NewSegmenter(topo, true)
	seats := []model.NormalizedSeat{
		seat("G", 43, "d", "e", "G1"),
		seat("G", 44, "d", "e", "G1"),
		seat("G", 46, "d", "e", "G1"),
		seat("G", 47, "d", "e", "G1"),
	}

	segs := sg.SegmentRow("G", seats)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segs), segs)
	}
	want := model.SeatSpan{Start: 43, End: 47}
	for _, s := range segs {
		if !s.IsMultiSegment {
			t.Errorf("segment %+v must be tagged multi-segment", s)
		}
		if s.OriginalRange == nil || *s.OriginalRange != want {
			t.Errorf("segment %+v original range, want %+v", s, want)
		}
	}
	if segs[0].StartSeat != 43 || segs[0].EndSeat != 44 {
		t.Errorf("first piece wrong: %+v", segs[0])
	}
	if segs[1].StartSeat != 46 || segs[1].EndSeat != 47 {
		t.Errorf("second piece wrong: %+v", segs[1])
	}
}

func TestSegmentRowDropsUnaddressableSeat(t *testing.T) {
	// Seat 45 recorded in the data but covered by no section: it does
	// not exist in the rendered chart, so the run splits around it and
	// the seat itself is not shown.
	topo := topology.New(nil, []model.RowSection{
		{Row: "G", Span: model.SeatSpan{Start: 1, End: 44}},
		{Row: "G", Span: model.SeatSpan{Start: 46, End: 80}},
	})
	sg := NewSegmenter(topo, true)
	seats := []model.NormalizedSeat{
		seat("G", 44, "d", "e", "G1"),
		seat("G", 45, "d", "e", "G1"),
		seat("G", 46, "d", "e", "G1"),
	}

	segs := sg.SegmentRow("G", seats)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segs), segs)
	}
	for _, s := range segs {
		if !s.IsMultiSegment || s.OriginalRange == nil || s.OriginalRange.Start != 44 || s.OriginalRange.End != 46 {
			t.Errorf("segment %+v must carry the full requested span 44-46", s)
		}
		if s.SeatCount() != 1 {
			t.Errorf("segment %+v seat count, want 1", s)
		}
	}
}

func TestSegmentRowSingleSeatNeverConnected(t *testing.T) {
	sg := NewSegmenter(topology.New([]model.Pillar{{Row: "E", Start: 40, End: 41}}, nil), true)
	segs := sg.SegmentRow("E", []model.NormalizedSeat{seat("E", 39, "d", "e", "G1")})
	if len(segs) != 1 || segs[0].IsConnected {
		t.Fatalf("single seat must not be connected: %+v", segs)
	}
}

func TestSegmentAllConservesSeats(t *testing.T) {
	topo := topology.New([]model.Pillar{{Row: "E", Start: 40, End: 41}}, nil)
	sg := NewSegmenter(topo, true)
	rows := map[string][]model.NormalizedSeat{
		"C": {seat("C", 1, "d", "e", "A"), seat("C", 2, "d", "e", "B"), seat("C", 9, "d", "e", "A")},
		"E": {seat("E", 39, "d", "e", "G"), seat("E", 42, "d", "e", "G")},
	}

	out := sg.SegmentAll(rows)
	got := map[string]bool{}
	for _, rs := range out {
		for _, s := range rs.Segments {
			for _, id := range s.MemberSeatIDs {
				if got[id] {
					t.Fatalf("seat %s emitted twice", id)
				}
				got[id] = true
			}
		}
	}
	want := map[string]bool{}
	for _, seats := range rows {
		for _, s := range seats {
			want[s.SeatID()] = true
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("emitted seats %v, want exactly %v", got, want)
	}
}

func TestSegmentAllIdempotent(t *testing.T) {
	topo := topology.New([]model.Pillar{{Row: "E", Start: 40, End: 41}}, nil)
	sg := NewSegmenter(topo, true)
	rows := map[string][]model.NormalizedSeat{
		"E": {seat("E", 38, "d", "e", "G1"), seat("E", 39, "d", "e", "G1"), seat("E", 42, "d", "e", "G1")},
		"C": {seat("C", 3, "d", "e", "G2"), seat("C", 5, "d", "e", "G2")},
	}

	first := sg.SegmentAll(rows)
	second := sg.SegmentAll(rows)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("segmentation not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestLegacyGroupBookingSegmentation(t *testing.T) {
	rows, skipped := GroupBookingSeats([]model.GroupBooking{
		{GroupName: "Smith Party", SeatCount: 4, SeatLocations: []string{"C32", "C33", "C34", "C35"}},
		{GroupName: "Jones", SeatCount: 2, SeatLocations: []string{"E39", "E42", "bogus"}},
	})
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}

	// Legacy mode: consecutive numbering only, no pillar bridging even
	// where the canonical engine would bridge.
	sg := NewSegmenter(nil, false)
	out := sg.SegmentAll(rows)
	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}
	cSegs := out[0].Segments
	if out[0].Row != "C" || len(cSegs) != 1 || !cSegs[0].IsConnected || cSegs[0].SeatCount() != 4 {
		t.Fatalf("row C: %+v", out[0])
	}
	eSegs := out[1].Segments
	if out[1].Row != "E" || len(eSegs) != 2 {
		t.Fatalf("row E must not bridge 39->42 in legacy mode: %+v", out[1])
	}
}

func TestSplitSeatID(t *testing.T) {
	cases := []struct {
		in  string
		row string
		num int
		ok  bool
	}{
		{"C32", "C", 32, true},
		{"AA7", "AA", 7, true},
		{"42", "", 0, false},
		{"C", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		row, num, ok := splitSeatID(tc.in)
		if row != tc.row || num != tc.num || ok != tc.ok {
			t.Errorf("splitSeatID(%q) = (%q, %d, %v), want (%q, %d, %v)", tc.in, row, num, ok, tc.row, tc.num, tc.ok)
		}
	}
}
