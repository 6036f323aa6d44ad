package jobs

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

// ErrorHandler logs failed and panicking jobs. Retries are left to the
// retry policy.
type ErrorHandler struct {
	logger zerolog.Logger
}

func NewErrorHandler(logger zerolog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger.With().Str("component", "jobs").Logger()}
}

func (h *ErrorHandler) HandleError(ctx context.Context, job *rivertype.JobRow, err error) *river.ErrorHandlerResult {
	event := h.logger.Error()
	if job.Attempt < job.MaxAttempts {
		event = h.logger.Warn()
	}
	event.Err(err).
		Int64("job_id", job.ID).
		Str("kind", job.Kind).
		Int("attempt", job.Attempt).
		Int("max_attempts", job.MaxAttempts).
		Msg("job failed")
	return nil
}

func (h *ErrorHandler) HandlePanic(ctx context.Context, job *rivertype.JobRow, panicVal any, trace string) *river.ErrorHandlerResult {
	h.logger.Error().
		Err(fmt.Errorf("panic: %v", panicVal)).
		Int64("job_id", job.ID).
		Str("kind", job.Kind).
		Int("attempt", job.Attempt).
		Str("trace", trace).
		Msg("job panicked")
	return nil
}
