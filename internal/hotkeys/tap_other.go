//go:build !linux && !darwin

package hotkeys

import (
	"errors"

	"github.com/1broseidon/snaptile/internal/platform"
)

// NewInstaller reports that global hotkeys are unavailable on this OS.
func NewInstaller(platform.Backend) (Installer, error) {
	return nil, errors.New("hotkeys: unsupported platform")
}
