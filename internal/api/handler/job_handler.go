package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jobtrack/jobtrack-be/internal/api/domain"
	"github.com/jobtrack/jobtrack-be/internal/api/dto"
	"github.com/jobtrack/jobtrack-be/internal/api/events"
	"github.com/jobtrack/jobtrack-be/internal/api/model"
	"github.com/jobtrack/jobtrack-be/internal/api/storage"
)

// CreateJob handles POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create job request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields: title, client_name, amount",
		})
		return
	}

	now := time.Now().UTC()
	job := model.Job{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		ClientName:  req.ClientName,
		Amount:      *req.Amount,
		// always unpaid at creation, regardless of input
		IsPaid:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.storage.CreateJob(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.publishEvent(c, events.JobCreated, job.ID, job.ClientName)

	c.JSON(http.StatusCreated, dto.JobResponse{Job: toJobDTO(&job)})
}

// GetJob handles GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id := c.Param("id")

	job, err := h.storage.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Failed to get job",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.JobResponse{Job: toJobDTO(job)})
}

// ListJobs handles GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.storage.ListJobs(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	jobDTOs := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		jobDTOs[i] = toJobDTO(&jobs[i])
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{Jobs: jobDTOs})
}

// UpdateJob handles PATCH /jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid update job request",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	patch := storage.JobPatch{
		Title:            req.Title,
		Description:      req.Description,
		ClientName:       req.ClientName,
		Amount:           req.Amount,
		IsPaid:           req.IsPaid,
		PaymentDate:      req.PaymentDate,
		PaymentReference: req.PaymentReference,
	}

	job, err := h.storage.UpdateJob(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		h.logger.Error("Failed to update job",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.publishEvent(c, events.JobUpdated, job.ID, job.ClientName)

	c.JSON(http.StatusOK, dto.JobResponse{Job: toJobDTO(job)})
}

// DeleteJob handles DELETE /jobs/:id. Deleting an absent job still returns
// 200, so the operation is idempotent from the caller's perspective.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id := c.Param("id")

	// Fetch first so the deleted event can carry the client name
	job, err := h.storage.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
			return
		}
		h.logger.Error("Failed to fetch job for delete",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.storage.DeleteJob(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete job",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if deleted {
		h.publishEvent(c, events.JobDeleted, job.ID, job.ClientName)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// GetSummary handles GET /jobs/summary
func (h *JobHandler) GetSummary(c *gin.Context) {
	summary, err := h.storage.JobSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute job summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{Summary: dto.SummaryDTO{
		JobCount:      summary.JobCount,
		PaidCount:     summary.PaidCount,
		TotalAmount:   summary.TotalAmount,
		PaidAmount:    summary.PaidAmount,
		PendingAmount: summary.PendingAmount,
	}})
}

// publishEvent emits a job lifecycle event. The row is already committed at
// this point, so a publish failure is logged and the request still succeeds;
// the rollup self-heals on the client's next event.
func (h *JobHandler) publishEvent(c *gin.Context, event, jobID, clientName string) {
	evt := events.NewJobEvent(event, jobID, clientName)
	if err := h.publisher.PublishJobEvent(c.Request.Context(), evt); err != nil {
		h.logger.Error("Failed to publish job event",
			slog.String("event", event),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}
