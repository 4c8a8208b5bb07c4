package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the rollup worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

type clientAggregate struct {
	JobCount    int     `db:"job_count"`
	TotalAmount float64 `db:"total_amount"`
	PaidAmount  float64 `db:"paid_amount"`
}

// RecomputeClientRollup rebuilds the rollup row for one client from the jobs
// table. A full recompute rather than an incremental delta keeps the rollup
// convergent under event redelivery and reordering. When the client has no
// jobs left the rollup row is removed.
func (s *Storage) RecomputeClientRollup(ctx context.Context, clientName string) error {
	aggQuery := s.db.Rebind(`
		SELECT
			COUNT(*) AS job_count,
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN is_paid THEN amount ELSE 0 END), 0) AS paid_amount
		FROM jobs
		WHERE client_name = ?
	`)

	var agg clientAggregate
	if err := s.db.GetContext(ctx, &agg, aggQuery, clientName); err != nil {
		return fmt.Errorf("failed to aggregate client jobs: %w", err)
	}

	if agg.JobCount == 0 {
		deleteQuery := s.db.Rebind(`DELETE FROM client_rollups WHERE client_name = ?`)
		if _, err := s.db.ExecContext(ctx, deleteQuery, clientName); err != nil {
			return fmt.Errorf("failed to delete client rollup: %w", err)
		}

		s.logger.Info("Client rollup removed",
			slog.String("client_name", clientName),
		)
		return nil
	}

	upsertQuery := s.db.Rebind(`
		INSERT INTO client_rollups (client_name, job_count, total_amount, paid_amount, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (client_name) DO UPDATE SET
			job_count = excluded.job_count,
			total_amount = excluded.total_amount,
			paid_amount = excluded.paid_amount,
			updated_at = excluded.updated_at
	`)

	_, err := s.db.ExecContext(
		ctx,
		upsertQuery,
		clientName,
		agg.JobCount,
		agg.TotalAmount,
		agg.PaidAmount,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert client rollup: %w", err)
	}

	s.logger.Info("Client rollup updated",
		slog.String("client_name", clientName),
		slog.Int("job_count", agg.JobCount),
		slog.Float64("total_amount", agg.TotalAmount),
		slog.Float64("paid_amount", agg.PaidAmount),
	)

	return nil
}
