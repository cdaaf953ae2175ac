// Package notify sends desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

const appName = "snaptile"

// Notifier sends desktop notifications when enabled.
type Notifier struct {
	enabled bool
	send    func(title, message, icon string) error
	log     zerolog.Logger
}

// New creates a Notifier.
func New(enabled bool, logger zerolog.Logger) *Notifier {
	return &Notifier{
		enabled: enabled,
		send:    beeep.Notify,
		log:     logger.With().Str("component", "notify").Logger(),
	}
}

// UpdateAvailable announces a newer release.
func (n *Notifier) UpdateAvailable(version string) {
	n.notify("Update available", "snaptile "+version+" is available. Use Check for Updates to download it.")
}

// PermissionMissing reminds the user that window control is not authorized.
func (n *Notifier) PermissionMissing() {
	n.notify("Permission needed", "Grant accessibility access, then choose Restart from the menu.")
}

// HotkeysUnavailable reports that the global hotkeys could not be installed.
func (n *Notifier) HotkeysUnavailable(msg string) {
	n.notify("Hotkeys unavailable", msg)
}

// DualSnap confirms a dual snap toggle.
func (n *Notifier) DualSnap(enabled bool) {
	state := "off"
	if enabled {
		state = "on"
	}
	n.notify("", "Dual snap "+state)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	if title != "" {
		title = appName + ": " + title
	} else {
		title = appName
	}
	// notification failures are not actionable
	if err := n.send(title, message, ""); err != nil {
		n.log.Debug().Err(err).Msg("notification failed")
	}
}
