// Package login manages the start-at-login entry for the daemon.
package login

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

const Label = "com.1broseidon.snaptile"

// Item is a start-at-login entry for one executable.
type Item struct {
	Home string
	Exe  string
	// Args follow Exe on launch.
	Args []string
}

// New returns the entry for the running executable.
func New() (*Item, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home: %w", err)
	}
	return &Item{Home: home, Exe: exe, Args: []string{"daemon"}}, nil
}

// Enabled reports whether the entry file exists.
func (it *Item) Enabled() bool {
	_, err := os.Stat(it.Path())
	return err == nil
}

// Set enables or disables the entry.
func (it *Item) Set(on bool) error {
	if on {
		return it.Enable()
	}
	return it.Disable()
}

func writeEntry(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func removeEntry(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func launchAgentPath(home string) string {
	return filepath.Join(home, "Library", "LaunchAgents", Label+".plist")
}

func plist(exe string, args []string) string {
	var argv strings.Builder
	for _, a := range append([]string{exe}, args...) {
		fmt.Fprintf(&argv, "\t\t<string>%s</string>\n", html.EscapeString(a))
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>LimitLoadToSessionType</key>
	<string>Aqua</string>
</dict>
</plist>
`, Label, argv.String())
}

func autostartPath(home string) string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", "snaptile.desktop")
}

// desktopQuote quotes an Exec argument using Desktop Entry Exec quoting rules.
func desktopQuote(s string) string {
	if !strings.ContainsAny(s, " \t\"'\\$`<>|&;*?#()") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

func desktopEntry(exe string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{exe}, args...) {
		parts = append(parts, desktopQuote(a))
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=snaptile
Comment=Snap windows with global hotkeys
Exec=%s
Terminal=false
X-GNOME-Autostart-enabled=true
`, strings.Join(parts, " "))
}
