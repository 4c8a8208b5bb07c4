package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack-be/internal/api/dto"
)

// ListClients handles GET /clients. Rollups are maintained asynchronously by
// the worker, so they may briefly trail the jobs table.
func (h *ClientHandler) ListClients(c *gin.Context) {
	rollups, err := h.storage.ListClientRollups(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list client rollups", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	clientDTOs := make([]dto.ClientRollupDTO, len(rollups))
	for i, rollup := range rollups {
		clientDTOs[i] = dto.ClientRollupDTO{
			ClientName:  rollup.ClientName,
			JobCount:    rollup.JobCount,
			TotalAmount: rollup.TotalAmount,
			PaidAmount:  rollup.PaidAmount,
			UpdatedAt:   rollup.UpdatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, dto.ListClientsResponse{Clients: clientDTOs})
}
