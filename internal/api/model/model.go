package model

import "time"

// Job is a tracked piece of client work with its invoicing state.
// PaymentDate and PaymentReference are only meaningful when IsPaid is true.
type Job struct {
	ID               string    `db:"id"`
	Title            string    `db:"title"`
	Description      string    `db:"description"`
	ClientName       string    `db:"client_name"`
	Amount           float64   `db:"amount"`
	IsPaid           bool      `db:"is_paid"`
	PaymentDate      *string   `db:"payment_date"`
	PaymentReference *string   `db:"payment_reference"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// DailyProgress is a per-day completion entry for a job.
// At most one row exists per (job_id, date); Date is a YYYY-MM-DD string.
type DailyProgress struct {
	ID        string    `db:"id"`
	JobID     string    `db:"job_id"`
	Date      string    `db:"date"`
	Completed bool      `db:"completed"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

// ClientRollup is the worker-maintained aggregate for one client
type ClientRollup struct {
	ClientName  string    `db:"client_name"`
	JobCount    int       `db:"job_count"`
	TotalAmount float64   `db:"total_amount"`
	PaidAmount  float64   `db:"paid_amount"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// JobSummary holds aggregate totals across all jobs
type JobSummary struct {
	JobCount      int     `db:"job_count"`
	PaidCount     int     `db:"paid_count"`
	TotalAmount   float64 `db:"total_amount"`
	PaidAmount    float64 `db:"paid_amount"`
	PendingAmount float64 `db:"-"`
}
