package repository // repository defines data access for stored chart inputs

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strconv"      // strconv formats numeric seat fields for storage

	"github.com/venuekit/seating-chart/internal/model"
)

// SeatRecordRepo stores the flat per-seat booking records a hall's chart
// is built from. Records are kept in their raw form — the seat number
// column is a string exactly as the feed delivered it — so reloading a
// hall replays normalization identically, parse quirks included.
type SeatRecordRepo struct {
	db *sql.DB
}

// NewSeatRecordRepo constructs a SeatRecordRepo with the given DB handle.
func NewSeatRecordRepo(db *sql.DB) *SeatRecordRepo {
	return &SeatRecordRepo{db: db}
}

// ReplaceForHall atomically replaces every stored record for a hall with
// the given batch. The chart treats each upload as a full resupply, so
// the previous batch has no further use.
func (r *SeatRecordRepo) ReplaceForHall(ctx context.Context, hallID uint64, records []model.RawRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_records WHERE hall_id = ?`, hallID); err != nil {
		return err
	}

	if len(records) > 0 {
		query := `INSERT INTO seat_records
		          (hall_id, record_uid, row_label, seat_number, day_label, event_label, booking_uid, account_name)
		          VALUES `
		args := make([]interface{}, 0, len(records)*8)
		for i, rec := range records {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args,
				hallID,
				rawString(rec, model.FieldRecordID),
				rawString(rec, model.FieldRow),
				rawString(rec, model.FieldSeatNum),
				rawString(rec, model.FieldDay),
				rawString(rec, model.FieldEvent),
				rawString(rec, model.FieldBookingID),
				rawString(rec, model.FieldAccount),
			)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListByHall retrieves a hall's raw records in insertion order. The rows
// are rebuilt into the dotted-path shape the normalizer consumes.
func (r *SeatRecordRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.RawRecord, error) {
	const q = `SELECT record_uid, row_label, seat_number, day_label, event_label, booking_uid, account_name
	           FROM seat_records
	           WHERE hall_id = ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RawRecord
	for rows.Next() {
		var recordUID, rowLabel, seatNumber, dayLabel, eventLabel, bookingUID, accountName string
		if err := rows.Scan(&recordUID, &rowLabel, &seatNumber, &dayLabel, &eventLabel, &bookingUID, &accountName); err != nil {
			return nil, err
		}
		rec := model.RawRecord{
			model.FieldRecordID: recordUID,
			model.FieldRow:      rowLabel,
			model.FieldSeatNum:  seatNumber,
			model.FieldDay:      dayLabel,
			model.FieldEvent:    eventLabel,
			model.FieldAccount:  accountName,
		}
		if bookingUID != "" {
			rec[model.FieldBookingID] = bookingUID
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rawString reads a dotted field as a string. Seat numbers that arrived
// as JSON numbers are stored in their float formatting so a reload
// parses them the same way the live upload did.
func rawString(rec model.RawRecord, key string) string {
	switch x := rec[key].(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}
