// Package daemon runs the command processor that owns all mutable runtime
// state: the dual-snap flag and the hotkey listener.
package daemon

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/hotkeys"
	"github.com/1broseidon/snaptile/internal/placement"
	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/snap"
)

const (
	DefaultQueueSize  = 16
	DefaultWakeSettle = time.Second
)

// Placer executes snap commands.
type Placer interface {
	Execute(cmd snap.Command, opts placement.Options) (placement.Result, error)
}

// Listener is the hotkey lifecycle the processor drives.
type Listener interface {
	Install() error
	Rearm() error
	Suspend() error
	Reinstall() error
	Close() error
	Stats() hotkeys.Stats
}

// DualSnapStore persists the dual-snap flag.
type DualSnapStore interface {
	SaveDualSnap(enabled bool) error
}

// Config configures a Processor.
type Config struct {
	Placer   Placer
	Screens  func() ([]platform.Screen, error)
	Store    DualSnapStore
	DualSnap bool

	QueueSize  int
	WakeSettle time.Duration
	// AfterFunc schedules the post-wake reinstall. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
	// OnDualSnap is called on the processor goroutine after the flag changes.
	OnDualSnap func(enabled bool)

	Logger zerolog.Logger
}

// Status is a point-in-time snapshot of the processor.
type Status struct {
	DualSnap   bool      `json:"dual_snap"`
	Hotkeys    string    `json:"hotkeys"`
	Commands   int       `json:"commands"`
	Rearms     int       `json:"rearms"`
	Reinstalls int       `json:"reinstalls"`
	Dropped    int64     `json:"dropped"`
	StartedAt  time.Time `json:"started_at"`
}

// Uptime is the time since the processor was created.
func (s Status) Uptime() time.Duration {
	return time.Since(s.StartedAt).Round(time.Second)
}

// Lifecycle signals. They bypass the event queue so a full queue never
// loses them, and repeated signals of one kind coalesce.
const (
	signalRearm uint32 = 1 << iota
	signalWake
	signalReinstall
)

// Processor serializes every state change through one goroutine. Post is
// safe from any goroutine, including the hotkey tap thread.
type Processor struct {
	events    chan Event
	control   chan struct{}
	pending   atomic.Uint32
	placer    Placer
	screens   func() ([]platform.Screen, error)
	store     DualSnapStore
	settle    time.Duration
	afterFunc func(time.Duration, func())
	onDual    func(bool)
	log       zerolog.Logger
	started   time.Time
	dropped   atomic.Int64

	// Owned by the Run goroutine.
	listener Listener
	dualSnap bool
	commands int
}

// New creates a processor. Attach a listener with UseListener before Run.
func New(cfg Config) *Processor {
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	settle := cfg.WakeSettle
	if settle <= 0 {
		settle = DefaultWakeSettle
	}
	after := cfg.AfterFunc
	if after == nil {
		after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return &Processor{
		events:    make(chan Event, size),
		control:   make(chan struct{}, 1),
		placer:    cfg.Placer,
		screens:   cfg.Screens,
		store:     cfg.Store,
		settle:    settle,
		afterFunc: after,
		onDual:    cfg.OnDualSnap,
		log:       cfg.Logger.With().Str("component", "processor").Logger(),
		started:   time.Now(),
		dualSnap:  cfg.DualSnap,
	}
}

// UseListener attaches the hotkey listener. It must be called before Run.
func (p *Processor) UseListener(l Listener) {
	p.listener = l
}

// Post enqueues ev without blocking. It reports false when the queue is full
// and the event was dropped.
func (p *Processor) Post(ev Event) bool {
	select {
	case p.events <- ev:
		return true
	default:
		p.dropped.Add(1)
		p.log.Warn().Str("event", eventName(ev)).Msg("event queue full, dropping event")
		return false
	}
}

// PostCommand lets the processor act as the listener's hotkeys.Poster.
func (p *Processor) PostCommand(cmd snap.Command) bool {
	return p.Post(CommandEvent{Command: cmd})
}

// PostTapDisabled lets the processor act as the listener's hotkeys.Poster.
// The re-enable is never dropped.
func (p *Processor) PostTapDisabled(reason hotkeys.DisableReason) bool {
	p.log.Warn().Stringer("reason", reason).Msg("hotkey tap disabled by the OS")
	p.signal(signalRearm)
	return true
}

// Wake reports that the machine resumed from sleep. Safe from any goroutine.
func (p *Processor) Wake() {
	p.signal(signalWake)
}

func (p *Processor) signal(bit uint32) {
	p.pending.Or(bit)
	select {
	case p.control <- struct{}{}:
	default:
	}
}

// Run consumes events until ctx is done, then closes the listener.
func (p *Processor) Run(ctx context.Context) {
	p.log.Info().Int("queue", cap(p.events)).Msg("processor started")
	defer func() {
		if p.listener != nil {
			if err := p.listener.Close(); err != nil {
				p.log.Warn().Err(err).Msg("closing hotkey listener")
			}
		}
		p.log.Info().Msg("processor stopped")
	}()

	for {
		// Lifecycle signals go ahead of queued commands.
		select {
		case <-p.control:
			p.lifecycle(p.pending.Swap(0))
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-p.control:
			p.lifecycle(p.pending.Swap(0))
		case ev := <-p.events:
			p.handle(ev)
		}
	}
}

func (p *Processor) handle(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("event", eventName(ev)).Msg("event handler panic recovered")
		}
	}()

	switch ev := ev.(type) {
	case CommandEvent:
		p.runCommand(ev)
	case InstallEvent:
		reply(ev.Reply, p.withListener(func(l Listener) error { return l.Install() }))
	case ReinstallEvent:
		reply(ev.Reply, p.reinstall())
	case SetDualSnapEvent:
		enabled := ev.Enabled
		if ev.Toggle {
			enabled = !p.dualSnap
		}
		p.setDualSnap(enabled)
		reply(ev.Reply, p.dualSnap)
	case DisplaysEvent:
		var r DisplaysReply
		if p.screens == nil {
			r.Err = platform.ErrNoScreens
		} else {
			r.Screens, r.Err = p.screens()
		}
		reply(ev.Reply, r)
	case StatusEvent:
		reply(ev.Reply, p.status())
	}
}

// lifecycle applies coalesced signals. A wake supersedes everything pending
// since it schedules its own reinstall. A reinstall supersedes a rearm.
func (p *Processor) lifecycle(bits uint32) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("lifecycle handler panic recovered")
		}
	}()

	switch {
	case bits&signalWake != 0:
		p.log.Info().Dur("settle", p.settle).Msg("system woke, reinstalling hotkey tap")
		if err := p.withListener(func(l Listener) error { return l.Suspend() }); err != nil {
			p.log.Debug().Err(err).Msg("suspend before reinstall")
		}
		p.afterFunc(p.settle, func() { p.signal(signalReinstall) })
	case bits&signalReinstall != 0:
		_ = p.reinstall()
	case bits&signalRearm != 0:
		if p.listener != nil && p.listener.Stats().State == hotkeys.Suspended {
			// the pending post-wake reinstall restores it
			return
		}
		if err := p.withListener(func(l Listener) error { return l.Rearm() }); err != nil {
			p.log.Error().Err(err).Msg("re-enable failed")
		}
	}
}

func (p *Processor) reinstall() error {
	err := p.withListener(func(l Listener) error { return l.Reinstall() })
	if err != nil {
		p.log.Error().Err(err).Msg("reinstall failed")
	}
	return err
}

func (p *Processor) runCommand(ev CommandEvent) {
	res, err := p.placer.Execute(ev.Command, placement.Options{DualSnap: p.dualSnap})
	p.commands++
	if err != nil {
		p.log.Debug().Err(err).Stringer("command", ev.Command).Msg("command failed")
	} else {
		p.log.Debug().
			Stringer("command", ev.Command).
			Int("windows", res.Windows).
			Str("note", res.Note).
			Msg("command done")
	}
	reply(ev.Reply, CommandReply{Result: res, Err: err})
}

func (p *Processor) setDualSnap(enabled bool) {
	if enabled == p.dualSnap {
		return
	}
	p.dualSnap = enabled
	p.log.Info().Bool("dual_snap", enabled).Msg("dual snap changed")
	if p.store != nil {
		if err := p.store.SaveDualSnap(enabled); err != nil {
			p.log.Error().Err(err).Msg("saving dual snap setting")
		}
	}
	if p.onDual != nil {
		p.onDual(enabled)
	}
}

func (p *Processor) status() Status {
	s := Status{
		DualSnap:  p.dualSnap,
		Hotkeys:   hotkeys.Uninstalled.String(),
		Commands:  p.commands,
		Dropped:   p.dropped.Load(),
		StartedAt: p.started,
	}
	if p.listener != nil {
		st := p.listener.Stats()
		s.Hotkeys = st.State.String()
		s.Rearms = st.Rearms
		s.Reinstalls = st.Reinstalls
		s.Dropped += st.Dropped
	}
	return s
}

var errNoListener = errors.New("no hotkey listener attached")

func (p *Processor) withListener(f func(Listener) error) error {
	if p.listener == nil {
		return errNoListener
	}
	return f(p.listener)
}

// reply sends v without blocking. Callers allocate buffered channels.
func reply[T any](ch chan<- T, v T) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}

func eventName(ev Event) string {
	switch ev := ev.(type) {
	case CommandEvent:
		return "command:" + ev.Command.String()
	case InstallEvent:
		return "install"
	case ReinstallEvent:
		return "reinstall"
	case SetDualSnapEvent:
		return "set_dual_snap"
	case DisplaysEvent:
		return "displays"
	case StatusEvent:
		return "status"
	default:
		return "unknown"
	}
}
