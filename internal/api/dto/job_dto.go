package dto

type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	ClientName  string   `json:"client_name" binding:"required"`
	Amount      *float64 `json:"amount" binding:"required"`
}

// UpdateJobRequest is the PATCH allow-list: only fields present in the body
// are written, unknown keys are ignored.
type UpdateJobRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	ClientName       *string  `json:"client_name"`
	Amount           *float64 `json:"amount"`
	IsPaid           *bool    `json:"is_paid"`
	PaymentDate      *string  `json:"payment_date"`
	PaymentReference *string  `json:"payment_reference"`
}

type UpsertProgressRequest struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

type JobDTO struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ClientName       string  `json:"client_name"`
	Amount           float64 `json:"amount"`
	IsPaid           bool    `json:"is_paid"`
	PaymentDate      *string `json:"payment_date"`
	PaymentReference *string `json:"payment_reference"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type ProgressDTO struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

type SummaryDTO struct {
	JobCount      int     `json:"job_count"`
	PaidCount     int     `json:"paid_count"`
	TotalAmount   float64 `json:"total_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	PendingAmount float64 `json:"pending_amount"`
}

type ClientRollupDTO struct {
	ClientName  string  `json:"client_name"`
	JobCount    int     `json:"job_count"`
	TotalAmount float64 `json:"total_amount"`
	PaidAmount  float64 `json:"paid_amount"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListJobsResponse struct {
	Jobs []JobDTO `json:"jobs"`
}

type JobResponse struct {
	Job JobDTO `json:"job"`
}

type ListProgressResponse struct {
	Progress []ProgressDTO `json:"progress"`
}

type ProgressResponse struct {
	Progress ProgressDTO `json:"progress"`
}

type SummaryResponse struct {
	Summary SummaryDTO `json:"summary"`
}

type ListClientsResponse struct {
	Clients []ClientRollupDTO `json:"clients"`
}
