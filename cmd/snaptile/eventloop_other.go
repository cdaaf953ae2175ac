//go:build !linux

package main

import (
	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/platform"
)

// startEventLoop is a no-op: the darwin tap runs its own run loop thread.
func startEventLoop(platform.Backend, zerolog.Logger) func() {
	return func() {}
}
