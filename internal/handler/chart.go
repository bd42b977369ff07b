// Package handler exposes HTTP handlers for the seating-chart API. One
// chart engine exists per hall; engines are created lazily from the
// hall's stored topology and records and kept for the process lifetime.
package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venuekit/seating-chart/internal/chart"
	"github.com/venuekit/seating-chart/internal/model"
	"github.com/venuekit/seating-chart/internal/queue"
	"github.com/venuekit/seating-chart/internal/repository"
	"github.com/venuekit/seating-chart/internal/topology"
)

// Publisher sends a chart event to the broker. Declared as a function
// type so tests can swap the RabbitMQ publisher for a recorder.
type Publisher func(ctx context.Context, ev queue.ChartEvent) error

// RecordStore is the subset of repository.SeatRecordRepo the handler
// needs; tests substitute an in-memory implementation.
type RecordStore interface {
	ReplaceForHall(ctx context.Context, hallID uint64, records []model.RawRecord) error
	ListByHall(ctx context.Context, hallID uint64) ([]model.RawRecord, error)
}

// TopologyStore loads a hall's static topology configuration.
type TopologyStore interface {
	ListPillars(ctx context.Context, hallID uint64) ([]model.Pillar, error)
	ListSections(ctx context.Context, hallID uint64) ([]model.RowSection, error)
}

var (
	_ RecordStore   = (*repository.SeatRecordRepo)(nil)
	_ TopologyStore = (*repository.TopologyRepo)(nil)
)

// ChartHandler aggregates the repositories and live engines serving the
// chart endpoints.
type ChartHandler struct {
	Records  RecordStore   // stored raw records per hall
	Topology TopologyStore // pillar and section configuration
	Publish  Publisher     // best-effort event fan-out; may be nil
	Debounce time.Duration // filter quiet period for new engines

	mu      sync.Mutex
	engines map[uint64]*chart.Engine
}

// NewChartHandler builds a handler over the given stores.
func NewChartHandler(records RecordStore, topo TopologyStore, publish Publisher, debounce time.Duration) *ChartHandler {
	return &ChartHandler{
		Records:  records,
		Topology: topo,
		Publish:  publish,
		Debounce: debounce,
		engines:  make(map[uint64]*chart.Engine),
	}
}

// engineFor returns the hall's engine, creating it on first use from the
// stored topology and replaying any persisted records into it.
func (h *ChartHandler) engineFor(ctx context.Context, hallID uint64) (*chart.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.engines[hallID]; ok {
		return e, nil
	}

	pillars, err := h.Topology.ListPillars(ctx, hallID)
	if err != nil {
		return nil, err
	}
	sections, err := h.Topology.ListSections(ctx, hallID)
	if err != nil {
		return nil, err
	}
	e := chart.NewEngine(topology.New(pillars, sections), h.Debounce)
	e.Subscribe(h.eventListener(hallID))

	if stored, err := h.Records.ListByHall(ctx, hallID); err != nil {
		log.Printf("chart: loading stored records for hall %d: %v", hallID, err)
	} else if len(stored) > 0 {
		e.LoadRecords(stored)
	}

	h.engines[hallID] = e
	return e, nil
}

// eventListener bridges engine reactions onto the broker. Publishing is
// detached from the reaction so a slow broker never blocks a request.
func (h *ChartHandler) eventListener(hallID uint64) chart.Listener {
	return func(ev chart.Event) {
		if h.Publish == nil {
			return
		}
		out := queue.ChartEvent{
			HallID:   hallID,
			Day:      ev.State.Filter.Day,
			Event:    ev.State.Filter.Event,
			RowCount: len(ev.State.Rows),
			At:       time.Now().UTC().Format(time.RFC3339),
		}
		for _, rs := range ev.State.Rows {
			out.SegmentCount += len(rs.Segments)
		}
		switch ev.Kind {
		case chart.EventDataReloaded:
			out.Kind = queue.KindReloaded
		case chart.EventFilterChanged:
			out.Kind = queue.KindRecomputed
		case chart.EventSelectionChanged:
			out.Kind = queue.KindSelection
			out.BookingID = ev.State.Selection.BookingID
			out.SeatCount = ev.State.Selection.SeatCount
			out.SeatRange = ev.State.Selection.SeatRange
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.Publish(ctx, out)
		}()
	}
}

func hallID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("hall"), 10, 64)
}

// IngestRecords replaces a hall's chart input with the posted flat
// records. The batch is persisted and then normalized into the live
// engine; malformed records are skipped, never fatal, and the skip count
// is reported back.
func (h *ChartHandler) IngestRecords(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := hallID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var records []model.RawRecord
	if err := c.Bind(&records); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if err := h.Records.ReplaceForHall(ctx, id, records); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	e, err := h.engineFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	st := e.LoadRecords(records)

	return c.JSON(http.StatusOK, echo.Map{
		"rows":            len(st.Rows),
		"skipped_records": st.SkippedRecords,
	})
}

// IngestGroupBookings feeds pre-grouped legacy bookings straight into
// the engine. This mode has no per-seat metadata, so nothing is
// persisted and the filter layer does not apply.
func (h *ChartHandler) IngestGroupBookings(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := hallID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var groups []model.GroupBooking
	if err := c.Bind(&groups); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	e, err := h.engineFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	st := e.LoadGroupBookings(groups)

	return c.JSON(http.StatusOK, echo.Map{
		"rows":            len(st.Rows),
		"skipped_records": st.SkippedRecords,
	})
}

// filterRequest is the body of PUT /filter. Empty strings mean "match all".
type filterRequest struct {
	Day   string `json:"day"`
	Event string `json:"event"`
}

// SetFilter schedules a debounced filter change and returns immediately.
// Rapid repeated calls coalesce; only the last filter within the quiet
// period is applied.
func (h *ChartHandler) SetFilter(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := hallID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	e, err := h.engineFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	e.SetFilter(req.Day, req.Event)

	return c.JSON(http.StatusAccepted, echo.Map{"status": "scheduled"})
}

// GetSegments returns the current derived chart: the active filter and
// the ordered (row, segments) sequence.
func (h *ChartHandler) GetSegments(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := hallID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	e, err := h.engineFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	st := e.Snapshot()

	items := st.Rows
	if items == nil {
		items = []model.RowSegments{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"filter":          st.Filter,
		"items":           items,
		"skipped_records": st.SkippedRecords,
	})
}

// selectRequest identifies a rendered segment by its aggregation key.
type selectRequest struct {
	Row       string `json:"row"`
	BookingID string `json:"booking_id"`
	StartSeat int    `json:"start_seat"`
}

// Select projects the identified segment into a detail view. A stale or
// unknown segment yields the empty "no selection" view with 200, never
// an error: the chart may simply have been refiltered under the client.
func (h *ChartHandler) Select(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := hallID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var req selectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	e, err := h.engineFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	st := e.Select(req.Row, req.BookingID, req.StartSeat)

	return c.JSON(http.StatusOK, st.Selection)
}

// GetSelection returns the current detail view without changing it.
func (h *ChartHandler) GetSelection(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := hallID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	e, err := h.engineFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, e.Snapshot().Selection)
}

// ClearSelection resets the hall's selection to the empty view.
func (h *ChartHandler) ClearSelection(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := hallID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	e, err := h.engineFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, e.ClearSelection().Selection)
}
