// Package dialog shows the blocking GUI dialogs.
package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/1broseidon/snaptile/internal/hotkeys"
	"github.com/1broseidon/snaptile/internal/snap"
)

const (
	PermissionTitle = "Accessibility Permissions Needed"
	GuideTitle      = "snaptile Guide"
)

// PermissionText is shown once at startup when window control is not authorized.
const PermissionText = "snaptile needs accessibility access to move and resize windows.\n\n" +
	"Open System Settings > Privacy & Security > Accessibility, enable snaptile, " +
	"then choose Restart from the menu bar icon."

// PermissionNotice blocks until the user dismisses the permission notice.
func PermissionNotice() error {
	return zenity.Warning(PermissionText,
		zenity.Title(PermissionTitle),
		zenity.OKLabel("OK"))
}

// GuideText lists the active bindings one per line.
func GuideText(bindings []hotkeys.Binding, dualSnap bool) string {
	var b strings.Builder
	b.WriteString("Hotkeys\n\n")
	for _, bd := range bindings {
		fmt.Fprintf(&b, "%-22s %s\n", bd.Combo.Display(), describe(bd))
	}
	b.WriteString("\nDual snap is ")
	if dualSnap {
		b.WriteString("on: snapping left or right also places the previous window on the other half.")
	} else {
		b.WriteString("off. Enable it under Settings to snap two windows side by side.")
	}
	return b.String()
}

func describe(b hotkeys.Binding) string {
	switch b.Command {
	case snap.Left:
		return "Snap to left half"
	case snap.Right:
		return "Snap to right half"
	case snap.Maximize:
		return "Fill the screen"
	case snap.Reset:
		return "Center at a smaller size"
	case snap.MoveToNextDisplay:
		return "Move to next display"
	default:
		return b.Command.String()
	}
}

// Guide shows the bindings guide.
func Guide(bindings []hotkeys.Binding, dualSnap bool) {
	zenity.Info(GuideText(bindings, dualSnap), zenity.Title(GuideTitle), zenity.NoIcon)
}

// UpdatePrompt asks whether to open the release page. Cancel returns false
// without an error.
func UpdatePrompt(version string) (bool, error) {
	err := zenity.Question(
		fmt.Sprintf("snaptile %s is available.", version),
		zenity.Title("Update Available"),
		zenity.OKLabel("Download"),
		zenity.CancelLabel("Later"),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpToDate tells the user no newer release exists.
func UpToDate(version string) {
	zenity.Info(fmt.Sprintf("snaptile %s is the latest version.", version), zenity.Title("No Updates"))
}

// ShowError shows an error message.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title))
}
