//go:build darwin

package login

import (
	"fmt"
	"os"
	"os/exec"
)

// Path is the LaunchAgent plist location.
func (it *Item) Path() string { return launchAgentPath(it.Home) }

// Enable writes the LaunchAgent and loads it into the GUI session.
func (it *Item) Enable() error {
	path := it.Path()
	if err := writeEntry(path, []byte(plist(it.Exe, it.Args))); err != nil {
		return err
	}
	domain := fmt.Sprintf("gui/%d", os.Getuid())
	// bootout first in case it is already loaded
	exec.Command("launchctl", "bootout", domain, path).Run()
	if out, err := exec.Command("launchctl", "bootstrap", domain, path).CombinedOutput(); err != nil {
		return fmt.Errorf("launchctl bootstrap: %w (%s)", err, out)
	}
	return nil
}

// Disable unloads and removes the LaunchAgent.
func (it *Item) Disable() error {
	path := it.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	domain := fmt.Sprintf("gui/%d", os.Getuid())
	exec.Command("launchctl", "bootout", domain, path).Run()
	return removeEntry(path)
}
