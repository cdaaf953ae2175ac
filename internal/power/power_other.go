//go:build !linux && !darwin

package power

import (
	"context"

	"github.com/rs/zerolog"
)

// Watch is a no-op on platforms without a wake source.
func Watch(_ context.Context, _ func(), logger zerolog.Logger) error {
	logger.Debug().Str("component", "power").Msg("no wake source on this platform")
	return nil
}
