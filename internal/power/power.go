// Package power reports system wake events.
package power

import (
	"github.com/godbus/dbus/v5"
)

const (
	logindPath      = dbus.ObjectPath("/org/freedesktop/login1")
	logindInterface = "org.freedesktop.login1.Manager"
	prepareForSleep = "PrepareForSleep"
)

// isWake reports whether sig is logind's PrepareForSleep(false), which is
// sent after resume.
func isWake(sig *dbus.Signal) bool {
	if sig == nil || sig.Name != logindInterface+"."+prepareForSleep {
		return false
	}
	if len(sig.Body) != 1 {
		return false
	}
	sleeping, ok := sig.Body[0].(bool)
	return ok && !sleeping
}
