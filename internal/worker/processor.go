package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobtrack/jobtrack-be/internal/worker/domain"
)

// processEvent rebuilds the rollup for the event's client. Which lifecycle
// event arrived does not matter: every event means the client's jobs changed
// and the aggregate is recomputed from the source rows.
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	w.logger.Info("Processing job event",
		slog.String("event", msg.Event.Event),
		slog.String("job_id", msg.Event.JobID),
		slog.String("client_name", msg.Event.ClientName),
	)

	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	if err := w.storage.RecomputeClientRollup(ctx, msg.Event.ClientName); err != nil {
		// store errors are assumed transient; redelivery retries the recompute
		return domain.NewRetryableError(fmt.Errorf("failed to recompute rollup: %w", err))
	}

	return nil
}
