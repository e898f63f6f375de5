package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/observability"
	"github.com/noah-isme/student-portal-api/internal/repository"
)

const defaultMaxRetries = 3

// withVersionRetry re-runs fn while it fails with a version conflict. fn must
// re-read the record on every attempt. The last conflict is returned once the
// attempts are exhausted.
func withVersionRetry(ctx context.Context, attempts int, entity string, logger zerolog.Logger, fn func() error) error {
	if attempts <= 0 {
		attempts = defaultMaxRetries
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn()
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}

		observability.LedgerConflicts().WithLabelValues(entity).Inc()
		logger.Debug().Str("entity", entity).Int("attempt", attempt).Msg("version conflict, retrying")
	}

	logger.Warn().Str("entity", entity).Int("attempts", attempts).Msg("giving up after repeated version conflicts")
	return err
}
