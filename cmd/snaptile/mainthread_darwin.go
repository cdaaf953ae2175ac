//go:build darwin

package main

import (
	"os"

	"golang.design/x/hotkey/mainthread"

	"github.com/1broseidon/snaptile/internal/platform"
)

// runMainLoop runs fn. With the menu-bar item, the tray's run loop owns the
// main thread. Without it, mainthread.Init runs the AppKit loop so the wake
// observer and mainthread.Call are still served.
func runMainLoop(headless bool, fn func() int) int {
	if !headless {
		return fn()
	}
	mainthread.Init(func() {
		os.Exit(fn())
	})
	return 0
}

// windowBackend routes window-system calls to the main thread, where
// NSScreen and NSWorkspace must be used. Calls block until the main run
// loop is up.
func windowBackend(b platform.Backend) platform.Backend {
	return platform.OnThread(b, mainthread.Call)
}
