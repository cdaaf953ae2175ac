//go:build darwin

package power

/*
#cgo LDFLAGS: -framework AppKit -framework Foundation
#include "wake_darwin.h"
*/
import "C"

import (
	"context"
	"runtime/cgo"
	"unsafe"

	"github.com/rs/zerolog"
)

type observer struct {
	onWake func()
	log    zerolog.Logger
}

// Watch observes NSWorkspaceDidWakeNotification on the main queue and calls
// onWake after every wake until ctx is done. The main run loop must be
// running (the tray runs it).
func Watch(ctx context.Context, onWake func(), logger zerolog.Logger) error {
	o := &observer{onWake: onWake, log: logger.With().Str("component", "power").Logger()}
	h := cgo.NewHandle(o)
	token := C.st_wake_observe(C.uintptr_t(h))
	o.log.Debug().Msg("watching workspace for wake")

	go func() {
		<-ctx.Done()
		C.st_wake_stop(unsafe.Pointer(token))
		h.Delete()
	}()
	return nil
}

//export goPowerWake
func goPowerWake(handle C.uintptr_t) {
	o, ok := cgo.Handle(handle).Value().(*observer)
	if !ok {
		return
	}
	o.log.Info().Msg("system woke")
	o.onWake()
}
