//go:build !darwin

package main

import "github.com/1broseidon/snaptile/internal/platform"

func runMainLoop(_ bool, fn func() int) int {
	return fn()
}

// windowBackend returns b unchanged; the X connection is safe from any
// goroutine.
func windowBackend(b platform.Backend) platform.Backend {
	return b
}
