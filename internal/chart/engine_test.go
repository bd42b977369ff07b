package chart

import (
	"testing"
	"time"

	"github.com/venuekit/seating-chart/internal/model"
	"github.com/venuekit/seating-chart/internal/topology"
)

func waitEvent(t *testing.T, ch <-chan Event, kind EventKind) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", kind)
		}
	}
}

func testRecords() []model.RawRecord {
	return []model.RawRecord{
		rec("C", "32", "Day 1 - Friday", "Rodeo", "r1", "G1", "Smith Party"),
		rec("C", "33", "Day 1 - Friday", "Rodeo", "r2", "G1", "Smith Party"),
		rec("C", "34", "Day 1 - Friday", "Rodeo", "r3", "G1", "Smith Party"),
		rec("C", "35", "Day 1 - Friday", "Rodeo", "r4", "G1", "Smith Party"),
		rec("C", "36", "Day 1 - Friday", "Rodeo", "r5", "G2", "Jones"),
		rec("C", "40", "Day 2 - Saturday", "Concert", "r6", "G3", "Lee"),
	}
}

func TestEngineLoadRecords(t *testing.T) {
	e := NewEngine(topology.New(nil, nil), time.Millisecond)

	st := e.LoadRecords(testRecords())
	if st.SkippedRecords != 0 {
		t.Fatalf("skipped = %d, want 0", st.SkippedRecords)
	}
	if len(st.Rows) != 1 || st.Rows[0].Row != "C" {
		t.Fatalf("rows: %+v", st.Rows)
	}
	segs := st.Rows[0].Segments
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3 (G1 run, G2 seat, G3 seat): %+v", len(segs), segs)
	}
	if segs[0].BookingID != "G1" || segs[0].StartSeat != 32 || segs[0].EndSeat != 35 ||
		!segs[0].IsConnected || segs[0].SeatCount() != 4 {
		t.Fatalf("end-to-end G1 segment wrong: %+v", segs[0])
	}
	if st.Selection.Kind != model.DetailNone {
		t.Fatal("fresh load must clear the selection")
	}
}

func TestEngineDebouncedFilterCoalesces(t *testing.T) {
	e := NewEngine(topology.New(nil, nil), 40*time.Millisecond)
	events := make(chan Event, 16)
	e.Subscribe(func(ev Event) { events <- ev })
	e.LoadRecords(testRecords())
	waitEvent(t, events, EventDataReloaded)

	// Three rapid changes: only the last one may ever apply.
	e.SetFilter("Day 1 - Friday", "")
	e.SetFilter("Day 1 - Friday", "Concert")
	e.SetFilter("Day 2 - Saturday", "Concert")

	ev := waitEvent(t, events, EventFilterChanged)
	if ev.State.Filter != (model.FilterKey{Day: "Day 2 - Saturday", Event: "Concert"}) {
		t.Fatalf("applied filter %+v, want the last change only", ev.State.Filter)
	}
	if len(ev.State.Rows) != 1 || len(ev.State.Rows[0].Segments) != 1 ||
		ev.State.Rows[0].Segments[0].BookingID != "G3" {
		t.Fatalf("filtered rows: %+v", ev.State.Rows)
	}
	for row, seats := range ev.State.Seats {
		for _, s := range seats {
			if s.Day != "Day 2 - Saturday" {
				t.Fatalf("seat %s%d leaked through the filter with day %q", row, s.SeatNumber, s.Day)
			}
		}
	}

	// No event for the discarded intermediate filters.
	select {
	case extra := <-events:
		if extra.Kind == EventFilterChanged {
			t.Fatalf("intermediate filter applied: %+v", extra.State.Filter)
		}
	case <-time.After(120 * time.Millisecond):
	}
}

func TestEngineFilterUsesCache(t *testing.T) {
	e := NewEngine(topology.New(nil, nil), time.Millisecond)
	events := make(chan Event, 16)
	e.Subscribe(func(ev Event) { events <- ev })
	e.LoadRecords(testRecords())

	e.SetFilter("Day 1 - Friday", "")
	waitEvent(t, events, EventFilterChanged)
	e.SetFilter("", "")
	waitEvent(t, events, EventFilterChanged)
	e.SetFilter("Day 1 - Friday", "")
	waitEvent(t, events, EventFilterChanged)

	hits, misses := e.CacheStats()
	if hits != 2 || misses != 2 {
		// Load misses for ("",""), first day filter misses, the return
		// to ("","") and the repeat day filter both hit.
		t.Fatalf("cache stats = (%d hits, %d misses), want (2, 2)", hits, misses)
	}
}

func TestEngineReloadResetsCache(t *testing.T) {
	e := NewEngine(topology.New(nil, nil), time.Millisecond)
	e.LoadRecords(testRecords())
	e.LoadRecords(testRecords())

	_, misses := e.CacheStats()
	if misses != 2 {
		t.Fatalf("misses = %d, want 2 (reload must recompute)", misses)
	}
}

func TestEngineSelectionLifecycle(t *testing.T) {
	e := NewEngine(topology.New(nil, nil), 10*time.Millisecond)
	events := make(chan Event, 16)
	e.Subscribe(func(ev Event) { events <- ev })
	e.LoadRecords(testRecords())

	st := e.Select("C", "G1", 32)
	if st.Selection.Kind != model.DetailGroup || st.Selection.SeatCount != 4 || st.Selection.SeatRange != "32-35" {
		t.Fatalf("selection: %+v", st.Selection)
	}
	waitEvent(t, events, EventSelectionChanged)

	// A filter change invalidates the selection.
	e.SetFilter("Day 2 - Saturday", "")
	ev := waitEvent(t, events, EventFilterChanged)
	if ev.State.Selection.Kind != model.DetailNone {
		t.Fatalf("filter change must clear selection, got %+v", ev.State.Selection)
	}

	// Selecting a segment that is no longer rendered yields no selection.
	st = e.Select("C", "G1", 32)
	if st.Selection.Kind != model.DetailNone {
		t.Fatalf("stale selection must yield the empty view, got %+v", st.Selection)
	}
}

func TestEngineSelectSingleSeat(t *testing.T) {
	e := NewEngine(topology.New(nil, nil), time.Millisecond)
	e.LoadRecords(testRecords())

	st := e.Select("C", "G2", 36)
	sel := st.Selection
	if sel.Kind != model.DetailSeat || sel.SeatNumber != 36 || sel.RecordID != "r5" ||
		sel.Day != "Day 1 - Friday" || sel.Event != "Rodeo" || sel.DisplayName != "Jones" {
		t.Fatalf("single-seat selection: %+v", sel)
	}
}

func TestEngineLegacyGroupBookings(t *testing.T) {
	e := NewEngine(topology.New([]model.Pillar{{Row: "E", Start: 40, End: 41}}, nil), time.Millisecond)

	st := e.LoadGroupBookings([]model.GroupBooking{
		{GroupName: "Smith Party", SeatCount: 2, SeatLocations: []string{"E39", "E42"}},
	})
	if len(st.Rows) != 1 || len(st.Rows[0].Segments) != 2 {
		t.Fatalf("legacy mode must not bridge pillar gaps: %+v", st.Rows)
	}
}
