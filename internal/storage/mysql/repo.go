// Package mysql keeps an append-only journal of booking outcomes.
// Room state itself is never persisted.
package mysql

import (
	"context"
	"database/sql"

	"room_reservation/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Journal struct{ db *sql.DB }

func New(db *sql.DB) *Journal { return &Journal{db: db} }

func (j *Journal) Record(ctx context.Context, rec domain.BookingRecord) error {
	_, err := j.db.ExecContext(ctx, insertOutcomeSQL,
		rec.RequestID,
		rec.RoomNumber,
		rec.Guest,
		string(rec.Outcome),
		valStr(rec.Reason),
		rec.ProcessedAt.UTC(),
	)
	return err
}

// ListByRoom returns the newest outcomes for one room.
func (j *Journal) ListByRoom(ctx context.Context, room, limit int) ([]domain.BookingRecord, error) {
	rows, err := j.db.QueryContext(ctx, listOutcomesByRoomSQL, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingRecord
	for rows.Next() {
		var (
			rec     domain.BookingRecord
			outcome string
			reason  sql.NullString
		)
		if err := rows.Scan(&rec.RequestID, &rec.RoomNumber, &rec.Guest, &outcome, &reason, &rec.ProcessedAt); err != nil {
			return nil, err
		}
		rec.Outcome = domain.Outcome(outcome)
		if reason.Valid {
			rec.Reason = reason.String
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountByOutcome tallies journaled requests per outcome.
func (j *Journal) CountByOutcome(ctx context.Context) (map[domain.Outcome]int64, error) {
	rows, err := j.db.QueryContext(ctx, countOutcomesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Outcome]int64)
	for rows.Next() {
		var (
			o string
			n int64
		)
		if err := rows.Scan(&o, &n); err != nil {
			return nil, err
		}
		out[domain.Outcome(o)] = n
	}
	return out, rows.Err()
}
