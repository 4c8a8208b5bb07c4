package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jobtrack/jobtrack-be/internal/api/dto"
	"github.com/jobtrack/jobtrack-be/internal/api/model"
)

// ListProgress handles GET /jobs/:id/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	jobID := c.Param("id")

	progress, err := h.storage.ListProgress(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to list progress",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	progressDTOs := make([]dto.ProgressDTO, len(progress))
	for i := range progress {
		progressDTOs[i] = toProgressDTO(&progress[i])
	}

	c.JSON(http.StatusOK, dto.ListProgressResponse{Progress: progressDTOs})
}

// UpsertProgress handles POST /jobs/:id/progress. The store performs the
// insert-or-update atomically on the (job_id, date) uniqueness constraint.
func (h *ProgressHandler) UpsertProgress(c *gin.Context) {
	jobID := c.Param("id")

	var req dto.UpsertProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid progress request",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date is required"})
		return
	}

	entry := model.DailyProgress{
		ID:        uuid.New().String(),
		JobID:     jobID,
		Date:      req.Date,
		Completed: req.Completed,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}

	result, err := h.storage.UpsertProgress(c.Request.Context(), &entry)
	if err != nil {
		h.logger.Error("Failed to upsert progress",
			slog.String("job_id", jobID),
			slog.String("date", req.Date),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ProgressResponse{Progress: toProgressDTO(result)})
}
