package platform

import (
	"errors"

	"github.com/1broseidon/snaptile/internal/snap"
)

var (
	// ErrNoWindow is returned when no focused window can be resolved.
	ErrNoWindow = errors.New("no focused window")
	// ErrNoScreens is returned when the window system reports no displays.
	ErrNoScreens = errors.New("no screens")
)

// WindowHandle is an opaque reference to a window owned by the backend.
// Handles are valid until passed to Release and must not be cached across
// commands.
type WindowHandle uint64

// Screen describes one display. Frame and Visible are in the bottom-left
// origin system where y grows upward from the bottom of the primary screen.
type Screen struct {
	ID      int
	Name    string
	Frame   snap.Rect
	Visible snap.Rect
}

// WindowInfo is one entry of the on-screen window list.
type WindowInfo struct {
	ID    uint64
	PID   int
	Layer int
	Title string
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	// Screens returns displays in system order. Index 0 is the primary screen.
	Screens() ([]Screen, error)
	// FocusedWindow resolves the focused window of the frontmost application.
	FocusedWindow() (WindowHandle, error)
	// WindowOrigin returns the window's top-left corner in the top-left
	// origin system.
	WindowOrigin(h WindowHandle) (snap.Point, error)
	SetPosition(h WindowHandle, p snap.Point) error
	SetSize(h WindowHandle, s snap.Size) error
	// WindowList returns on-screen windows ordered front to back.
	WindowList() ([]WindowInfo, error)
	// WindowFor resolves the focused window of the application owning info.
	WindowFor(info WindowInfo) (WindowHandle, error)
	Release(h WindowHandle)
	// Trusted reports whether the process may control other windows. When
	// prompt is set the OS may show its own permission request.
	Trusted(prompt bool) bool
}

// PrimaryHeight returns the height of the first screen, the flip reference
// for converting between coordinate systems.
func PrimaryHeight(screens []Screen) float64 {
	if len(screens) == 0 {
		return 0
	}
	return screens[0].Frame.Height
}
