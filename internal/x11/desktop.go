package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// stickyDesktop is the _NET_WM_DESKTOP value for windows shown on every desktop.
const stickyDesktop = 0xFFFFFFFF

// IsOnCurrentDesktop reports whether the window is visible on the current
// virtual desktop. Windows that do not report a desktop count as visible.
func (c *Connection) IsOnCurrentDesktop(windowID xproto.Window) bool {
	current, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return true
	}
	desktop, err := ewmh.WmDesktopGet(c.XUtil, windowID)
	if err != nil {
		return true
	}
	return desktop == stickyDesktop || desktop == current
}
