package platform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/snaptile/internal/snap"
)

// FakeWindow is one window tracked by Fake. Frame is in the top-left origin
// system.
type FakeWindow struct {
	Info  WindowInfo
	Frame snap.Rect
}

// Write records one attribute write made through Fake.
type Write struct {
	Window uint64
	Kind   string // "position" or "size"
	Point  snap.Point
	Size   snap.Size
}

// Fake is an in-memory Backend for tests. Windows are kept front to back;
// the first entry is focused unless Focused is set.
type Fake struct {
	mu sync.Mutex

	ScreenList []Screen
	Windows    []FakeWindow
	// Focused overrides the focused window ID. Zero means the first window.
	Focused uint64
	// NoFocus makes FocusedWindow report ErrNoWindow.
	NoFocus bool
	// Unresolvable lists window IDs whose WindowFor lookup fails.
	Unresolvable map[uint64]bool
	// FailPosition and FailSize make the matching writes fail.
	FailPosition bool
	FailSize     bool
	IsTrusted    bool
	// EmptyScreens makes Screens return no displays without an error, as
	// a backend may mid display change.
	EmptyScreens bool

	Writes   []Write
	released int
	acquired int
	handles  map[WindowHandle]uint64
	next     WindowHandle
}

var _ Backend = (*Fake)(nil)

func (f *Fake) Screens() ([]Screen, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EmptyScreens {
		return []Screen{}, nil
	}
	if len(f.ScreenList) == 0 {
		return nil, ErrNoScreens
	}
	return append([]Screen(nil), f.ScreenList...), nil
}

func (f *Fake) FocusedWindow() (WindowHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NoFocus || len(f.Windows) == 0 {
		return 0, ErrNoWindow
	}
	id := f.Focused
	if id == 0 {
		id = f.Windows[0].Info.ID
	}
	return f.acquireLocked(id), nil
}

func (f *Fake) WindowOrigin(h WindowHandle) (snap.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.windowLocked(h)
	if err != nil {
		return snap.Point{}, err
	}
	return w.Frame.Origin(), nil
}

func (f *Fake) SetPosition(h WindowHandle, p snap.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.windowLocked(h)
	if err != nil {
		return err
	}
	f.Writes = append(f.Writes, Write{Window: w.Info.ID, Kind: "position", Point: p})
	if f.FailPosition {
		return errors.New("position rejected")
	}
	w.Frame.X, w.Frame.Y = p.X, p.Y
	return nil
}

func (f *Fake) SetSize(h WindowHandle, s snap.Size) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.windowLocked(h)
	if err != nil {
		return err
	}
	f.Writes = append(f.Writes, Write{Window: w.Info.ID, Kind: "size", Size: s})
	if f.FailSize {
		return errors.New("size rejected")
	}
	w.Frame.Width, w.Frame.Height = s.Width, s.Height
	return nil
}

func (f *Fake) WindowList() ([]WindowInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	infos := make([]WindowInfo, 0, len(f.Windows))
	for _, w := range f.Windows {
		infos = append(infos, w.Info)
	}
	return infos, nil
}

func (f *Fake) WindowFor(info WindowInfo) (WindowHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unresolvable[info.ID] {
		return 0, ErrNoWindow
	}
	for _, w := range f.Windows {
		if w.Info.ID == info.ID {
			return f.acquireLocked(info.ID), nil
		}
	}
	return 0, ErrNoWindow
}

func (f *Fake) Release(h WindowHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.handles[h]; ok {
		delete(f.handles, h)
		f.released++
	}
}

func (f *Fake) Trusted(bool) bool { return f.IsTrusted }

// Outstanding returns the number of acquired handles not yet released.
func (f *Fake) Outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquired - f.released
}

// Frame returns the current frame of the window with the given ID.
func (f *Fake) Frame(id uint64) snap.Rect {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.Windows {
		if w.Info.ID == id {
			return w.Frame
		}
	}
	return snap.Rect{}
}

// WritesFor returns the writes made to one window in order.
func (f *Fake) WritesFor(id uint64) []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Write
	for _, w := range f.Writes {
		if w.Window == id {
			out = append(out, w)
		}
	}
	return out
}

func (f *Fake) acquireLocked(id uint64) WindowHandle {
	if f.handles == nil {
		f.handles = make(map[WindowHandle]uint64)
	}
	f.next++
	f.handles[f.next] = id
	f.acquired++
	return f.next
}

func (f *Fake) windowLocked(h WindowHandle) (*FakeWindow, error) {
	id, ok := f.handles[h]
	if !ok {
		return nil, fmt.Errorf("unknown handle %d", h)
	}
	for i := range f.Windows {
		if f.Windows[i].Info.ID == id {
			return &f.Windows[i], nil
		}
	}
	return nil, fmt.Errorf("window %d gone", id)
}
