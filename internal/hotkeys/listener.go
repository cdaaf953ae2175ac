// Package hotkeys watches for global key combos and turns them into snap
// commands.
package hotkeys

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/snap"
)

// ErrNotInstalled is returned when an operation needs a tap and none exists.
var ErrNotInstalled = errors.New("hotkey tap not installed")

// Verdict tells a tap what to do with the observed key event.
type Verdict int

const (
	// Pass delivers the event to the focused application.
	Pass Verdict = iota
	// Swallow consumes the event.
	Swallow
)

// DisableReason says why the OS turned a tap off.
type DisableReason int

const (
	DisabledByTimeout DisableReason = iota
	DisabledByUserInput
)

func (r DisableReason) String() string {
	switch r {
	case DisabledByTimeout:
		return "timeout"
	case DisabledByUserInput:
		return "user_input"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Sink receives callbacks from a tap. Both methods run on the tap's thread
// and must return quickly.
type Sink interface {
	HandleKey(ev KeyEvent) Verdict
	HandleDisabled(reason DisableReason)
}

// Tap is a live OS-level key interception handle.
type Tap interface {
	Enable(on bool) error
	Enabled() bool
	Close() error
}

// Installer creates a tap delivering to sink for the given bindings.
type Installer func(sink Sink, bindings []Binding) (Tap, error)

// Poster forwards listener output to the command processor. Both methods
// must not block.
type Poster interface {
	PostCommand(cmd snap.Command) bool
	PostTapDisabled(reason DisableReason) bool
}

// State is the listener lifecycle state.
type State int

const (
	Uninstalled State = iota
	Active
	Suspended
)

func (s State) String() string {
	switch s {
	case Uninstalled:
		return "uninstalled"
	case Active:
		return "active"
	case Suspended:
		return "suspended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats summarizes listener activity.
type Stats struct {
	State      State `json:"-"`
	Rearms     int   `json:"rearms"`
	Reinstalls int   `json:"reinstalls"`
	Dropped    int64 `json:"dropped"`
}

// Listener owns the tap. HandleKey and HandleDisabled may be called from
// the tap thread; every other method belongs to the processor goroutine.
type Listener struct {
	install Installer
	decoder *Decoder
	poster  Poster
	log     zerolog.Logger

	tap        Tap
	state      State
	rearms     int
	reinstalls int
	dropped    atomic.Int64
}

// NewListener validates bindings and returns an uninstalled listener.
func NewListener(install Installer, bindings []Binding, poster Poster, logger zerolog.Logger) (*Listener, error) {
	if install == nil {
		return nil, errors.New("hotkeys: nil installer")
	}
	decoder, err := NewDecoder(bindings)
	if err != nil {
		return nil, err
	}
	return &Listener{
		install: install,
		decoder: decoder,
		poster:  poster,
		log:     logger.With().Str("component", "hotkeys").Logger(),
	}, nil
}

// Bindings returns the active bindings.
func (l *Listener) Bindings() []Binding {
	return l.decoder.Bindings()
}

// Install creates the tap. Calling it while a tap exists is a no-op.
func (l *Listener) Install() error {
	if l.tap != nil {
		return nil
	}
	tap, err := l.install(l, l.decoder.Bindings())
	if err != nil {
		return fmt.Errorf("install tap: %w", err)
	}
	l.tap = tap
	l.state = Active
	l.log.Info().Int("bindings", len(l.decoder.bindings)).Msg("hotkey tap installed")
	return nil
}

// HandleKey decodes ev and forwards matches. A matching combo is swallowed
// even when the processor queue is full.
func (l *Listener) HandleKey(ev KeyEvent) Verdict {
	cmd, ok := l.decoder.Decode(ev)
	if !ok {
		return Pass
	}
	if !l.poster.PostCommand(cmd) {
		l.dropped.Add(1)
	}
	return Swallow
}

// HandleDisabled forwards an OS disablement to the processor.
func (l *Listener) HandleDisabled(reason DisableReason) {
	if !l.poster.PostTapDisabled(reason) {
		l.dropped.Add(1)
	}
}

// Rearm re-enables the existing tap in place.
func (l *Listener) Rearm() error {
	if l.tap == nil {
		return ErrNotInstalled
	}
	if err := l.tap.Enable(true); err != nil {
		return fmt.Errorf("rearm tap: %w", err)
	}
	l.rearms++
	l.state = Active
	l.log.Info().Int("rearms", l.rearms).Msg("hotkey tap re-enabled")
	return nil
}

// Suspend disables the tap without destroying it.
func (l *Listener) Suspend() error {
	if l.tap == nil {
		return ErrNotInstalled
	}
	if err := l.tap.Enable(false); err != nil {
		return fmt.Errorf("suspend tap: %w", err)
	}
	l.state = Suspended
	return nil
}

// Reinstall destroys the current tap, if any, and creates a new one.
func (l *Listener) Reinstall() error {
	if l.tap != nil {
		if err := l.tap.Close(); err != nil {
			l.log.Warn().Err(err).Msg("closing old tap")
		}
		l.tap = nil
		l.state = Uninstalled
	}
	if err := l.Install(); err != nil {
		return err
	}
	l.reinstalls++
	return nil
}

// Close destroys the tap.
func (l *Listener) Close() error {
	if l.tap == nil {
		return nil
	}
	err := l.tap.Close()
	l.tap = nil
	l.state = Uninstalled
	return err
}

// Stats reports the lifecycle state and counters.
func (l *Listener) Stats() Stats {
	return Stats{
		State:      l.state,
		Rearms:     l.rearms,
		Reinstalls: l.reinstalls,
		Dropped:    l.dropped.Load(),
	}
}
