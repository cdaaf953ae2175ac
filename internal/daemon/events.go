package daemon

import (
	"github.com/1broseidon/snaptile/internal/placement"
	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/snap"
)

// Event is anything the processor consumes. The set is closed.
type Event interface {
	event()
}

// CommandReply carries the outcome of a CommandEvent.
type CommandReply struct {
	Result placement.Result
	Err    error
}

// CommandEvent runs a snap command. Reply may be nil.
type CommandEvent struct {
	Command snap.Command
	Reply   chan<- CommandReply
}

// InstallEvent installs the hotkey tap. Reply may be nil.
type InstallEvent struct {
	Reply chan<- error
}

// ReinstallEvent replaces the tap with a fresh one.
type ReinstallEvent struct {
	Reply chan<- error
}

// SetDualSnapEvent changes the dual-snap flag. With Toggle set, Enabled is
// ignored and the flag is inverted. Reply receives the new value.
type SetDualSnapEvent struct {
	Enabled bool
	Toggle  bool
	Reply   chan<- bool
}

// DisplaysReply carries the outcome of a DisplaysEvent.
type DisplaysReply struct {
	Screens []platform.Screen
	Err     error
}

// DisplaysEvent enumerates screens.
type DisplaysEvent struct {
	Reply chan<- DisplaysReply
}

// StatusEvent requests a status snapshot.
type StatusEvent struct {
	Reply chan<- Status
}

func (CommandEvent) event()     {}
func (InstallEvent) event()     {}
func (ReinstallEvent) event()   {}
func (SetDualSnapEvent) event() {}
func (DisplaysEvent) event()    {}
func (StatusEvent) event()      {}
