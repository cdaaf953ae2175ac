// Package placement moves and resizes the focused window according to a
// snap command.
package placement

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/snap"
)

// Options carries caller-owned state that affects placement.
type Options struct {
	// DualSnap mirrors Left and Right onto the second frontmost window.
	DualSnap bool
}

// Config configures a Placer.
type Config struct {
	// ResetScale divides the visible frame for Reset. Zero means the default.
	ResetScale float64
	// SelfPID is excluded from second-window selection. Zero means os.Getpid().
	SelfPID int
	Logger  zerolog.Logger
}

// Result describes what a command did. Resolution failures are not errors;
// Note explains why fewer windows than expected were placed.
type Result struct {
	Command snap.Command `json:"command"`
	Screen  string       `json:"screen,omitempty"`
	Windows int          `json:"windows"`
	Note    string       `json:"note,omitempty"`
}

// Placer executes commands against a window-system backend.
type Placer struct {
	backend platform.Backend
	scale   float64
	selfPID int
	log     zerolog.Logger
}

// New creates a Placer.
func New(backend platform.Backend, cfg Config) *Placer {
	scale := cfg.ResetScale
	if scale <= 0 {
		scale = snap.DefaultResetScale
	}
	pid := cfg.SelfPID
	if pid == 0 {
		pid = os.Getpid()
	}
	return &Placer{
		backend: backend,
		scale:   scale,
		selfPID: pid,
		log:     cfg.Logger.With().Str("component", "placement").Logger(),
	}
}

// Execute runs any command.
func (p *Placer) Execute(cmd snap.Command, opts Options) (Result, error) {
	switch cmd {
	case snap.Left, snap.Right, snap.Maximize, snap.Reset:
		return p.Place(cmd, opts)
	case snap.MoveToNextDisplay:
		return p.MoveToNextDisplay()
	default:
		return Result{Command: cmd}, fmt.Errorf("unknown command %d", int(cmd))
	}
}

// Place snaps the focused window to the rectangle cmd selects on the screen
// holding the window's top-left corner. With DualSnap set, Left and Right
// also place the second frontmost window on the opposite half.
func (p *Placer) Place(cmd snap.Command, opts Options) (Result, error) {
	res := Result{Command: cmd}
	if _, err := snap.Target(cmd, snap.Rect{}, p.scale); err != nil {
		return res, err
	}

	screens, ok := p.screens()
	if !ok {
		res.Note = "no screens"
		return res, nil
	}

	win, err := p.backend.FocusedWindow()
	if err != nil {
		p.log.Debug().Err(err).Stringer("command", cmd).Msg("no focused window")
		res.Note = "no focused window"
		return res, nil
	}
	defer p.backend.Release(win)

	screen := screens[p.screenIndex(win, screens)]
	reference := platform.PrimaryHeight(screens)
	res.Screen = screen.Name

	p.apply(win, cmd, screen, reference)
	res.Windows = 1

	if !opts.DualSnap {
		return res, nil
	}
	opposite, ok := cmd.Opposite()
	if !ok {
		return res, nil
	}

	second, ok := p.secondWindow()
	if !ok {
		res.Note = "no second window"
		return res, nil
	}
	defer p.backend.Release(second)

	p.apply(second, opposite, screen, reference)
	res.Windows++
	return res, nil
}

// MoveToNextDisplay moves the focused window to the origin of the next
// screen's visible frame, cycling by index. Size is left unchanged.
func (p *Placer) MoveToNextDisplay() (Result, error) {
	res := Result{Command: snap.MoveToNextDisplay}

	screens, ok := p.screens()
	if !ok {
		res.Note = "no screens"
		return res, nil
	}

	win, err := p.backend.FocusedWindow()
	if err != nil {
		p.log.Debug().Err(err).Msg("no focused window")
		res.Note = "no focused window"
		return res, nil
	}
	defer p.backend.Release(win)

	if len(screens) < 2 {
		res.Note = "single display"
		return res, nil
	}

	current := p.screenIndex(win, screens)
	next := screens[(current+1)%len(screens)]
	visible := next.Visible
	origin := snap.Point{
		X: visible.X,
		Y: snap.FlipY(visible.Y, visible.Height, platform.PrimaryHeight(screens)),
	}

	if err := p.backend.SetPosition(win, origin); err != nil {
		p.log.Debug().Err(err).Msg("position write failed")
	}
	p.log.Debug().Str("screen", next.Name).Msg("moved window to next display")

	res.Screen = next.Name
	res.Windows = 1
	return res, nil
}

// apply writes position then size. Both writes are attempted regardless of
// the outcome of the first.
func (p *Placer) apply(win platform.WindowHandle, cmd snap.Command, screen platform.Screen, reference float64) {
	target, err := snap.Target(cmd, screen.Visible, p.scale)
	if err != nil {
		p.log.Debug().Err(err).Stringer("command", cmd).Msg("no target")
		return
	}
	target = snap.ToTopLeft(target, reference)

	if err := p.backend.SetPosition(win, target.Origin()); err != nil {
		p.log.Debug().Err(err).Stringer("command", cmd).Msg("position write failed")
	}
	if err := p.backend.SetSize(win, target.Size()); err != nil {
		p.log.Debug().Err(err).Stringer("command", cmd).Msg("size write failed")
	}
	p.log.Debug().
		Stringer("command", cmd).
		Str("screen", screen.Name).
		Stringer("target", target).
		Msg("placed window")
}

// screens reports false when the backend fails or returns an empty list,
// which can happen mid display change.
func (p *Placer) screens() ([]platform.Screen, bool) {
	screens, err := p.backend.Screens()
	if err == nil && len(screens) == 0 {
		err = platform.ErrNoScreens
	}
	if err != nil {
		p.log.Debug().Err(err).Msg("screens unavailable")
		return nil, false
	}
	return screens, true
}

// screenIndex finds the screen whose frame, in top-left coordinates,
// contains the window's top-left point. Defaults to the first screen.
func (p *Placer) screenIndex(win platform.WindowHandle, screens []platform.Screen) int {
	origin, err := p.backend.WindowOrigin(win)
	if err != nil {
		p.log.Debug().Err(err).Msg("window origin unavailable")
	}

	reference := platform.PrimaryHeight(screens)
	for i, s := range screens {
		if snap.ToTopLeft(s.Frame, reference).Contains(origin) {
			return i
		}
	}
	return 0
}

// secondWindow picks the window behind the active one: the second on-screen
// layer-0 window not owned by this process whose owner reports a focused
// window.
func (p *Placer) secondWindow() (platform.WindowHandle, bool) {
	infos, err := p.backend.WindowList()
	if err != nil {
		p.log.Debug().Err(err).Msg("window list unavailable")
		return 0, false
	}

	skippedActive := false
	for _, info := range infos {
		if info.Layer != 0 || info.PID == p.selfPID {
			continue
		}
		if !skippedActive {
			skippedActive = true
			continue
		}
		h, err := p.backend.WindowFor(info)
		if err != nil {
			continue
		}
		return h, true
	}
	return 0, false
}
