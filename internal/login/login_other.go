//go:build !darwin

package login

// Path is the XDG autostart entry location.
func (it *Item) Path() string { return autostartPath(it.Home) }

// Enable writes the autostart entry.
func (it *Item) Enable() error {
	return writeEntry(it.Path(), []byte(desktopEntry(it.Exe, it.Args)))
}

// Disable removes the autostart entry.
func (it *Item) Disable() error {
	return removeEntry(it.Path())
}
