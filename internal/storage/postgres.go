package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
)

// PgxPool is the subset of pgxpool.Pool the store uses. Tests inject a
// pgxmock pool through it.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore persists the appointment set in a single table. The
// repository contract is full-replace, so Save deletes and re-inserts
// the whole set in one transaction.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("storage: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

// Load reads the persisted set ordered by id. An empty table yields an
// empty set.
func (s *PostgresStore) Load(ctx context.Context) ([]scheduling.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, patient, start_at, duration_minutes, status FROM appointments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: query appointments: %w", err)
	}
	defer rows.Close()

	appointments := []scheduling.Appointment{}
	for rows.Next() {
		var (
			appt    scheduling.Appointment
			startAt time.Time
		)
		if err := rows.Scan(&appt.ID, &appt.Patient, &startAt, &appt.DurationMinutes, &appt.Status); err != nil {
			return nil, fmt.Errorf("storage: scan appointment: %w", err)
		}
		appt.Start = scheduling.NewTimestamp(startAt)
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate appointments: %w", err)
	}
	return appointments, nil
}

// Save replaces the table contents with the given set.
func (s *PostgresStore) Save(ctx context.Context, appointments []scheduling.Appointment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("storage: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM appointments`); err != nil {
		return fmt.Errorf("storage: clear appointments: %w", err)
	}
	for _, appt := range appointments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO appointments (id, patient, start_at, duration_minutes, status) VALUES ($1, $2, $3, $4, $5)`,
			appt.ID, appt.Patient, appt.Start.Time, appt.DurationMinutes, appt.Status,
		); err != nil {
			return fmt.Errorf("storage: insert appointment %d: %w", appt.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("storage: commit save: %w", err)
	}
	return nil
}

var _ scheduling.Repository = (*PostgresStore)(nil)
