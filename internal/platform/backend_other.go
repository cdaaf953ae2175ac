//go:build !linux && !darwin

package platform

import (
	"fmt"
	"runtime"

	"github.com/1broseidon/snaptile/internal/snap"
)

// UnsupportedBackend is returned on platforms without a window backend so the
// CLI can still talk to a daemon elsewhere.
type UnsupportedBackend struct{}

var _ Backend = UnsupportedBackend{}

func New(string) (UnsupportedBackend, error) {
	return UnsupportedBackend{}, fmt.Errorf("window control is not supported on %s", runtime.GOOS)
}

func (UnsupportedBackend) Disconnect() {}
func (UnsupportedBackend) Screens() ([]Screen, error) { return nil, ErrNoScreens }
func (UnsupportedBackend) FocusedWindow() (WindowHandle, error) { return 0, ErrNoWindow }
func (UnsupportedBackend) WindowList() ([]WindowInfo, error) { return nil, nil }
func (UnsupportedBackend) WindowFor(WindowInfo) (WindowHandle, error) { return 0, ErrNoWindow }
func (UnsupportedBackend) Release(WindowHandle) {}
func (UnsupportedBackend) Trusted(bool) bool { return false }

func (UnsupportedBackend) WindowOrigin(WindowHandle) (snap.Point, error) {
	return snap.Point{}, ErrNoWindow
}

func (UnsupportedBackend) SetPosition(WindowHandle, snap.Point) error { return ErrNoWindow }

func (UnsupportedBackend) SetSize(WindowHandle, snap.Size) error { return ErrNoWindow }
