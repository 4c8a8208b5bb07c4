package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jobtrack/jobtrack-be/internal/api/domain"
	"github.com/jobtrack/jobtrack-be/internal/api/model"
)

const jobColumns = `
	id, title, description, client_name, amount,
	is_paid, payment_date, payment_reference, created_at, updated_at`

const progressColumns = `
	id, job_id, date, completed, notes, created_at`

// Storage handles all database operations for the API service.
// Queries use ? placeholders and are rebound for the active driver, so the
// same code runs against PostgreSQL in production and SQLite in tests.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Ping verifies the underlying database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := s.db.Rebind(`
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Title,
		job.Description,
		job.ClientName,
		job.Amount,
		job.IsPaid,
		job.PaymentDate,
		job.PaymentReference,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetJob(ctx context.Context, id string) (*model.Job, error) {
	query := s.db.Rebind(`
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE id = ?
	`)

	var job model.Job
	err := s.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// ListJobs returns every job, newest first. The id tiebreak keeps the order
// stable for rows created within the same timestamp tick.
func (s *Storage) ListJobs(ctx context.Context) ([]model.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		ORDER BY created_at DESC, id DESC
	`

	jobs := []model.Job{}
	if err := s.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// JobPatch holds the writable fields of a partial update; nil means unchanged
type JobPatch struct {
	Title            *string
	Description      *string
	ClientName       *string
	Amount           *float64
	IsPaid           *bool
	PaymentDate      *string
	PaymentReference *string
}

// UpdateJob applies a partial update and returns the resulting row.
// An empty patch returns the job unchanged.
func (s *Storage) UpdateJob(ctx context.Context, id string, patch JobPatch) (*model.Job, error) {
	setClauses := ""
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		if setClauses != "" {
			setClauses += ", "
		}
		setClauses += column + " = ?"
		args = append(args, value)
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.ClientName != nil {
		addSet("client_name", *patch.ClientName)
	}
	if patch.Amount != nil {
		addSet("amount", *patch.Amount)
	}
	if patch.IsPaid != nil {
		addSet("is_paid", *patch.IsPaid)
	}
	if patch.PaymentDate != nil {
		addSet("payment_date", *patch.PaymentDate)
	}
	if patch.PaymentReference != nil {
		addSet("payment_reference", *patch.PaymentReference)
	}

	if len(args) == 0 {
		return s.GetJob(ctx, id)
	}

	addSet("updated_at", time.Now().UTC())
	args = append(args, id)

	query := s.db.Rebind(`
		UPDATE jobs
		SET ` + setClauses + `
		WHERE id = ?
		RETURNING ` + jobColumns + `
	`)

	var job model.Job
	err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&job)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return &job, nil
}

// DeleteJob removes a job row. Returns false when no row matched; dependent
// progress rows go with the job via the schema's cascade.
func (s *Storage) DeleteJob(ctx context.Context, id string) (bool, error) {
	query := s.db.Rebind(`DELETE FROM jobs WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (s *Storage) JobSummary(ctx context.Context) (*model.JobSummary, error) {
	query := `
		SELECT
			COUNT(*) AS job_count,
			COALESCE(SUM(CASE WHEN is_paid THEN 1 ELSE 0 END), 0) AS paid_count,
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN is_paid THEN amount ELSE 0 END), 0) AS paid_amount
		FROM jobs
	`

	var summary model.JobSummary
	if err := s.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("failed to compute job summary: %w", err)
	}

	summary.PendingAmount = summary.TotalAmount - summary.PaidAmount

	return &summary, nil
}

// ListProgress returns all progress rows for one job, newest date first.
// Dates are ISO strings, so the lexicographic order is chronological.
func (s *Storage) ListProgress(ctx context.Context, jobID string) ([]model.DailyProgress, error) {
	query := s.db.Rebind(`
		SELECT ` + progressColumns + `
		FROM daily_progress
		WHERE job_id = ?
		ORDER BY date DESC
	`)

	progress := []model.DailyProgress{}
	if err := s.db.SelectContext(ctx, &progress, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	return progress, nil
}

// UpsertProgress inserts or updates the row for (job_id, date) in a single
// statement keyed on the schema's uniqueness constraint, so concurrent calls
// for the same key converge on one row. Returns the resulting row; on update
// the original id and created_at are preserved.
func (s *Storage) UpsertProgress(ctx context.Context, entry *model.DailyProgress) (*model.DailyProgress, error) {
	query := s.db.Rebind(`
		INSERT INTO daily_progress (` + progressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id, date) DO UPDATE SET
			completed = excluded.completed,
			notes = excluded.notes
		RETURNING ` + progressColumns + `
	`)

	var result model.DailyProgress
	err := s.db.QueryRowxContext(
		ctx,
		query,
		entry.ID,
		entry.JobID,
		entry.Date,
		entry.Completed,
		entry.Notes,
		entry.CreatedAt,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	return &result, nil
}

// ListClientRollups returns the worker-maintained per-client aggregates
func (s *Storage) ListClientRollups(ctx context.Context) ([]model.ClientRollup, error) {
	query := `
		SELECT client_name, job_count, total_amount, paid_amount, updated_at
		FROM client_rollups
		ORDER BY client_name
	`

	rollups := []model.ClientRollup{}
	if err := s.db.SelectContext(ctx, &rollups, query); err != nil {
		return nil, fmt.Errorf("failed to list client rollups: %w", err)
	}

	return rollups, nil
}
