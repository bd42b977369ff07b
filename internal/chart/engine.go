package chart

import (
	"sync"
	"time"

	"github.com/venuekit/seating-chart/internal/model"
	"github.com/venuekit/seating-chart/internal/topology"
)

// DefaultDebounce is the quiet period applied to filter changes. Rapid
// repeated changes are coalesced: each change resets the timer and only
// the last value within the quiet period is ever applied.
const DefaultDebounce = 100 * time.Millisecond

// EventKind names the reactions subscribers can observe.
type EventKind string

const (
	EventDataReloaded     EventKind = "data_reloaded"
	EventFilterChanged    EventKind = "filter_changed"
	EventSelectionChanged EventKind = "selection_changed"
)

// State is the full derived state handed to subscribers and handlers
// after every reaction: the active filter, the filter-matching seats,
// the rendered rows, the current selection and the normalization skip
// count.
type State struct {
	Filter         model.FilterKey                   `json:"filter"`
	Seats          map[string][]model.NormalizedSeat `json:"seats"`
	Rows           []model.RowSegments               `json:"rows"`
	Selection      model.DetailView                  `json:"selection"`
	SkippedRecords int                               `json:"skipped_records"`
}

// Event pairs a reaction kind with the state after the reaction.
type Event struct {
	Kind  EventKind
	State State
}

// Listener receives events after each completed reaction. Listeners are
// invoked outside the engine lock, in subscription order, on the
// goroutine that triggered the reaction.
type Listener func(Event)

// Engine owns all mutable chart state: the normalized dataset, the
// active filter, the result cache and the current selection. Every
// mutation runs as one synchronous reaction under a single mutex, which
// preserves the single-owner guarantees the rest of the package assumes.
type Engine struct {
	mu        sync.Mutex
	topo      *topology.Topology
	segmenter *Segmenter
	debounce  time.Duration

	normalized map[string][]model.NormalizedSeat
	filtered   map[string][]model.NormalizedSeat
	skipped    int
	legacy     bool // dataset came from pre-grouped bookings

	filter    model.FilterKey
	cache     *ResultCache
	rows      []model.RowSegments
	selection model.DetailView

	timer    *time.Timer
	timerGen uint64

	listeners []Listener
}

// NewEngine builds an engine over the given topology. A non-positive
// debounce falls back to DefaultDebounce.
func NewEngine(topo *topology.Topology, debounce time.Duration) *Engine {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Engine{
		topo:      topo,
		segmenter: NewSegmenter(topo, true),
		debounce:  debounce,
		cache:     NewResultCache(),
		selection: model.NoSelection(),
	}
}

// Subscribe registers a listener for all subsequent reactions.
func (e *Engine) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// LoadRecords replaces the dataset with normalized raw records. The
// result cache is reset (all memoized values derive from the dataset),
// any pending debounced filter change is cancelled, the selection is
// cleared, and segmentation runs for the active filter.
func (e *Engine) LoadRecords(raw []model.RawRecord) State {
	normalized, skipped := Normalize(raw)
	return e.reload(normalized, skipped, false)
}

// LoadGroupBookings replaces the dataset with pre-grouped legacy
// bookings. This mode bypasses the filter layer and segments by
// consecutive numbering only, with no obstruction awareness.
func (e *Engine) LoadGroupBookings(groups []model.GroupBooking) State {
	rows, skipped := GroupBookingSeats(groups)
	return e.reload(rows, skipped, true)
}

func (e *Engine) reload(rows map[string][]model.NormalizedSeat, skipped int, legacy bool) State {
	e.mu.Lock()
	e.cancelPendingLocked()
	e.normalized = rows
	e.skipped = skipped
	e.legacy = legacy
	e.cache.Reset()
	e.selection = model.NoSelection()
	e.recomputeLocked()
	st := e.stateLocked()
	ls := e.listenersCopyLocked()
	e.mu.Unlock()

	notify(ls, Event{Kind: EventDataReloaded, State: st})
	return st
}

// SetFilter schedules a filter change. The change is applied only after
// the quiet period elapses with no further change; each call cancels and
// replaces whatever was pending, so intermediate values are discarded,
// never applied.
func (e *Engine) SetFilter(day, event string) {
	key := model.FilterKey{Day: day, Event: event}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPendingLocked()
	gen := e.timerGen
	e.timer = time.AfterFunc(e.debounce, func() { e.applyFilter(gen, key) })
}

// cancelPendingLocked stops any scheduled filter application and bumps
// the generation so an already-fired timer goroutine becomes a no-op.
func (e *Engine) cancelPendingLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

func (e *Engine) applyFilter(gen uint64, key model.FilterKey) {
	e.mu.Lock()
	if gen != e.timerGen {
		// A newer change or a reload superseded this one.
		e.mu.Unlock()
		return
	}
	e.timer = nil
	e.filter = key
	e.selection = model.NoSelection()
	e.recomputeLocked()
	st := e.stateLocked()
	ls := e.listenersCopyLocked()
	e.mu.Unlock()

	notify(ls, Event{Kind: EventFilterChanged, State: st})
}

// Select locates the rendered segment identified by row, booking id and
// start seat and projects it into the detail view. A stale or unknown
// identity yields the empty "no selection" view rather than an error.
func (e *Engine) Select(row, bookingID string, startSeat int) State {
	e.mu.Lock()
	seg, ok := e.findSegmentLocked(row, bookingID, startSeat)
	if ok {
		e.selection = Project(e.topo, e.rows, seg)
	} else {
		e.selection = model.NoSelection()
	}
	st := e.stateLocked()
	ls := e.listenersCopyLocked()
	e.mu.Unlock()

	notify(ls, Event{Kind: EventSelectionChanged, State: st})
	return st
}

// ClearSelection resets the selection to the empty view.
func (e *Engine) ClearSelection() State {
	e.mu.Lock()
	e.selection = model.NoSelection()
	st := e.stateLocked()
	ls := e.listenersCopyLocked()
	e.mu.Unlock()

	notify(ls, Event{Kind: EventSelectionChanged, State: st})
	return st
}

// Snapshot returns the current derived state without mutating anything.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// CacheStats exposes result-cache hit/miss counters for diagnostics.
func (e *Engine) CacheStats() (hits, misses uint64) {
	return e.cache.Stats()
}

func (e *Engine) recomputeLocked() {
	key := e.filter
	if e.legacy {
		// Legacy pre-grouped data carries no day/event metadata; the
		// filter layer does not apply.
		e.filtered = e.normalized
	} else {
		e.filtered = Filter(e.normalized, key.Day, key.Event)
	}
	e.rows = e.cache.GetOrCompute(key, func() []model.RowSegments {
		if e.legacy {
			seg := NewSegmenter(nil, false)
			return seg.SegmentAll(e.normalized)
		}
		return e.segmenter.SegmentAll(e.filtered)
	})
}

func (e *Engine) findSegmentLocked(row, bookingID string, startSeat int) (model.Segment, bool) {
	for _, rs := range e.rows {
		if rs.Row != row {
			continue
		}
		for _, seg := range rs.Segments {
			if seg.BookingID == bookingID && seg.StartSeat == startSeat {
				return seg, true
			}
		}
	}
	return model.Segment{}, false
}

func (e *Engine) stateLocked() State {
	return State{
		Filter:         e.filter,
		Seats:          e.filtered,
		Rows:           e.rows,
		Selection:      e.selection,
		SkippedRecords: e.skipped,
	}
}

func (e *Engine) listenersCopyLocked() []Listener {
	ls := make([]Listener, len(e.listeners))
	copy(ls, e.listeners)
	return ls
}

func notify(ls []Listener, ev Event) {
	for _, l := range ls {
		l(ev)
	}
}
