//go:build linux

package main

import (
	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/platform"
)

// startEventLoop runs the X event loop that delivers grabbed key presses.
func startEventLoop(backend platform.Backend, log zerolog.Logger) func() {
	lb, ok := backend.(*platform.LinuxBackend)
	if !ok {
		return func() {}
	}
	conn := lb.Connection()
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Debug().Msg("X event loop started")
		conn.EventLoop()
	}()
	return func() {
		conn.Quit()
		<-done
	}
}
