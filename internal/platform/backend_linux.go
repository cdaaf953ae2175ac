//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/snaptile/internal/snap"
	"github.com/1broseidon/snaptile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
//
// X11 uses a top-left origin. Screens are reported in the bottom-left system
// using the first monitor's height as reference so that the flip performed
// during placement lands back on the original root coordinates.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// New opens a fresh X11 connection on the given display ("" for $DISPLAY).
func New(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection exposes the X11 connection for the key grab tap.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

func (b *LinuxBackend) Screens() ([]Screen, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, ErrNoScreens
	}

	reference := float64(monitors[0].Bounds.Height)
	screens := make([]Screen, 0, len(monitors))
	for _, m := range monitors {
		screens = append(screens, Screen{
			ID:      m.ID,
			Name:    m.Name,
			Frame:   snap.ToTopLeft(areaRect(m.Bounds), reference),
			Visible: snap.ToTopLeft(areaRect(m.Usable), reference),
		})
	}
	return screens, nil
}

func (b *LinuxBackend) FocusedWindow() (WindowHandle, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	win, err := conn.ActiveWindow()
	if err != nil || win == 0 || win == conn.Root {
		return 0, ErrNoWindow
	}
	if !conn.IsNormalWindow(win) {
		return 0, ErrNoWindow
	}
	return WindowHandle(win), nil
}

func (b *LinuxBackend) WindowOrigin(h WindowHandle) (snap.Point, error) {
	conn, err := b.connection()
	if err != nil {
		return snap.Point{}, err
	}

	x, y, err := conn.WindowOrigin(xproto.Window(h))
	if err != nil {
		return snap.Point{}, fmt.Errorf("window origin: %w", err)
	}
	return snap.Point{X: float64(x), Y: float64(y)}, nil
}

func (b *LinuxBackend) SetPosition(h WindowHandle, p snap.Point) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(h), round(p.X), round(p.Y))
}

func (b *LinuxBackend) SetSize(h WindowHandle, s snap.Size) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ResizeWindow(xproto.Window(h), round(s.Width), round(s.Height))
}

// WindowList reports managed clients topmost first. Normal windows that are
// visible on the current desktop are layer 0, everything else layer 1.
func (b *LinuxBackend) WindowList() ([]WindowInfo, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	stacking, err := conn.StackingOrder()
	if err != nil {
		return nil, err
	}

	infos := make([]WindowInfo, 0, len(stacking))
	for _, win := range stacking {
		if conn.IsHidden(win) || !conn.IsOnCurrentDesktop(win) {
			continue
		}
		layer := 0
		if !conn.IsNormalWindow(win) {
			layer = 1
		}
		infos = append(infos, WindowInfo{
			ID:    uint64(win),
			PID:   conn.WindowPID(win),
			Layer: layer,
			Title: conn.WindowTitle(win),
		})
	}
	return infos, nil
}

// WindowFor returns the listed window itself; X11 has no per-application
// focused window.
func (b *LinuxBackend) WindowFor(info WindowInfo) (WindowHandle, error) {
	if info.ID == 0 {
		return 0, ErrNoWindow
	}
	return WindowHandle(info.ID), nil
}

func (b *LinuxBackend) Release(WindowHandle) {}

// Trusted is always true; X11 clients may move any window.
func (b *LinuxBackend) Trusted(bool) bool { return true }

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func areaRect(a x11.Area) snap.Rect {
	return snap.Rect{
		X:      float64(a.X),
		Y:      float64(a.Y),
		Width:  float64(a.Width),
		Height: float64(a.Height),
	}
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
