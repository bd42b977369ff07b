package repository

import (
	"context"
	"database/sql"

	"github.com/venuekit/seating-chart/internal/model"
)

// TopologyRepo loads a hall's static venue topology: registered pillar
// spans and structural row sections. Topology rows are configuration —
// written by venue setup tooling, read once per chart — so this repo is
// read-only.
type TopologyRepo struct {
	db *sql.DB
}

// NewTopologyRepo constructs a TopologyRepo with the given DB handle.
func NewTopologyRepo(db *sql.DB) *TopologyRepo {
	return &TopologyRepo{db: db}
}

// ListPillars retrieves all pillar spans for a hall ordered by row then
// start seat. A hall with no pillars yields an empty slice, which the
// topology treats as fully contiguous rows.
func (r *TopologyRepo) ListPillars(ctx context.Context, hallID uint64) ([]model.Pillar, error) {
	const q = `SELECT row_label, start_seat, end_seat
	           FROM pillars
	           WHERE hall_id = ?
	           ORDER BY row_label, start_seat`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Pillar
	for rows.Next() {
		var p model.Pillar
		if err := rows.Scan(&p.Row, &p.Start, &p.End); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSections retrieves all structural row sections for a hall ordered
// by row then start seat. Rows without sections are single-section.
func (r *TopologyRepo) ListSections(ctx context.Context, hallID uint64) ([]model.RowSection, error) {
	const q = `SELECT row_label, start_seat, end_seat
	           FROM row_sections
	           WHERE hall_id = ?
	           ORDER BY row_label, start_seat`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RowSection
	for rows.Next() {
		var s model.RowSection
		if err := rows.Scan(&s.Row, &s.Span.Start, &s.Span.End); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
