package handler

import (
	"log/slog"
	"time"

	"github.com/jobtrack/jobtrack-be/internal/api/dto"
	"github.com/jobtrack/jobtrack-be/internal/api/events"
	"github.com/jobtrack/jobtrack-be/internal/api/model"
	"github.com/jobtrack/jobtrack-be/internal/api/storage"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Storage   *storage.Storage
	Publisher events.Publisher
}

// JobHandler handles job resource requests
type JobHandler struct {
	logger    *slog.Logger
	storage   *storage.Storage
	publisher events.Publisher
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:    deps.Logger,
		storage:   deps.Storage,
		publisher: deps.Publisher,
	}
}

// ProgressHandler handles daily progress requests
type ProgressHandler struct {
	logger  *slog.Logger
	storage *storage.Storage
}

// NewProgressHandler creates a new ProgressHandler instance
func NewProgressHandler(deps *Dependencies) *ProgressHandler {
	return &ProgressHandler{
		logger:  deps.Logger,
		storage: deps.Storage,
	}
}

// ClientHandler serves the worker-maintained client rollups
type ClientHandler struct {
	logger  *slog.Logger
	storage *storage.Storage
}

// NewClientHandler creates a new ClientHandler instance
func NewClientHandler(deps *Dependencies) *ClientHandler {
	return &ClientHandler{
		logger:  deps.Logger,
		storage: deps.Storage,
	}
}

func toJobDTO(job *model.Job) dto.JobDTO {
	return dto.JobDTO{
		ID:               job.ID,
		Title:            job.Title,
		Description:      job.Description,
		ClientName:       job.ClientName,
		Amount:           job.Amount,
		IsPaid:           job.IsPaid,
		PaymentDate:      job.PaymentDate,
		PaymentReference: job.PaymentReference,
		CreatedAt:        job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        job.UpdatedAt.Format(time.RFC3339),
	}
}

func toProgressDTO(entry *model.DailyProgress) dto.ProgressDTO {
	return dto.ProgressDTO{
		ID:        entry.ID,
		JobID:     entry.JobID,
		Date:      entry.Date,
		Completed: entry.Completed,
		Notes:     entry.Notes,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
}
