package chart

import (
	"reflect"
	"testing"

	"github.com/venuekit/seating-chart/internal/model"
)

func TestResultCacheComputesOncePerKey(t *testing.T) {
	c := NewResultCache()
	key := model.FilterKey{Day: "Day 1 - Friday", Event: "Rodeo"}
	calls := 0
	compute := func() []model.RowSegments {
		calls++
		return []model.RowSegments{{Row: "C"}}
	}

	first := c.GetOrCompute(key, compute)
	second := c.GetOrCompute(key, compute)
	if calls != 1 {
		t.Fatalf("compute invoked %d times, want exactly 1", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("hit must return the stored value")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("stats = (%d hits, %d misses), want (1, 1)", hits, misses)
	}
}

func TestResultCacheKeyIsValueEquality(t *testing.T) {
	c := NewResultCache()
	calls := 0
	compute := func() []model.RowSegments { calls++; return nil }

	c.GetOrCompute(model.FilterKey{Day: "d", Event: "e"}, compute)
	c.GetOrCompute(model.FilterKey{Day: "d", Event: "e"}, compute)
	c.GetOrCompute(model.FilterKey{Day: "d", Event: ""}, compute)
	if calls != 2 {
		t.Fatalf("compute invoked %d times, want 2 (one per distinct tuple)", calls)
	}
}

func TestResultCacheReset(t *testing.T) {
	c := NewResultCache()
	key := model.FilterKey{}
	calls := 0
	compute := func() []model.RowSegments { calls++; return nil }

	c.GetOrCompute(key, compute)
	c.Reset()
	c.GetOrCompute(key, compute)
	if calls != 2 {
		t.Fatalf("compute invoked %d times after reset, want 2", calls)
	}
}
