// Package topology is the static registry of physical obstructions
// (pillars) and structural row sections (staircase breaks) for a venue.
// It is pure lookup: loaded once per chart and never mutated afterwards,
// so it is safe to share between goroutines without locking.
package topology

import (
	"sort"

	"github.com/venuekit/seating-chart/internal/model"
)

// Topology answers adjacency and addressability questions for one venue.
type Topology struct {
	pillars  map[string][]model.Pillar   // row label -> pillars, sorted by Start
	sections map[string][]model.SeatSpan // row label -> section spans, sorted by Start
}

// New builds a Topology from registered pillars and row sections. Rows
// absent from both registries behave as fully contiguous, which is the
// default for most of the venue, not an error.
func New(pillars []model.Pillar, sections []model.RowSection) *Topology {
	t := &Topology{
		pillars:  make(map[string][]model.Pillar),
		sections: make(map[string][]model.SeatSpan),
	}
	for _, p := range pillars {
		t.pillars[p.Row] = append(t.pillars[p.Row], p)
	}
	for row := range t.pillars {
		ps := t.pillars[row]
		sort.Slice(ps, func(i, j int) bool { return ps[i].Start < ps[j].Start })
	}
	for _, s := range sections {
		t.sections[s.Row] = append(t.sections[s.Row], s.Span)
	}
	for row := range t.sections {
		ss := t.sections[row]
		sort.Slice(ss, func(i, j int) bool { return ss[i].Start < ss[j].Start })
	}
	return t
}

// IsObstructedGap reports whether the gap between two seat numbers in a
// row exactly matches a registered pillar's span: the pillar begins right
// after prev and curr is the first number past it. Anything else — a
// wider gap, a partial overlap, an unregistered hole — is not bridged.
func (t *Topology) IsObstructedGap(row string, prev, curr int) bool {
	for _, p := range t.pillars[row] {
		if prev+1 == p.Start && curr == p.End+1 {
			return true
		}
	}
	return false
}

// MemberSeats returns, ascending, every seat number in [start, end] that
// is not inside a pillar span. This is the authoritative occupancy of a
// range: a run straddling a pillar overstates its seat count by exactly
// the pillar width, and every caller that reports counts goes through
// here.
func (t *Topology) MemberSeats(row string, start, end int) []int {
	var out []int
	for n := start; n <= end; n++ {
		if !t.isPillarSeat(row, n) {
			out = append(out, n)
		}
	}
	return out
}

// SectionIndex returns the index of the registered section containing
// the seat number, or 0 when the row has no registered sections (the
// whole row is one section). A number covered by no section in a row
// that does declare sections returns -1: such a seat is not addressable.
func (t *Topology) SectionIndex(row string, number int) int {
	spans, ok := t.sections[row]
	if !ok || len(spans) == 0 {
		return 0
	}
	for i, s := range spans {
		if number >= s.Start && number <= s.End {
			return i
		}
	}
	return -1
}

// Addressable reports whether a seat number genuinely exists in the row:
// outside every pillar span and, when the row declares sections, inside
// one of them.
func (t *Topology) Addressable(row string, number int) bool {
	return !t.isPillarSeat(row, number) && t.SectionIndex(row, number) >= 0
}

func (t *Topology) isPillarSeat(row string, number int) bool {
	for _, p := range t.pillars[row] {
		if number >= p.Start && number <= p.End {
			return true
		}
	}
	return false
}
