// Package tray provides the menu-bar item and its menu.
package tray

import (
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"
)

const Title = "ST"

// Callbacks handle menu actions. Toggle callbacks return the resulting state.
type Callbacks struct {
	OnDualSnapToggle func() bool
	OnLoginToggle    func(on bool) (bool, error)
	OnShowGuide      func()
	OnCheckUpdates   func()
	OnRestart        func()
	OnQuit           func()
}

// Tray owns the menu items.
type Tray struct {
	callbacks Callbacks
	version   string

	mu       sync.Mutex
	dualSnap bool
	login    bool

	dualSnapItem *systray.MenuItem
	loginItem    *systray.MenuItem
	guideBtn     *systray.MenuItem
	updateBtn    *systray.MenuItem
	restartBtn   *systray.MenuItem
	quitBtn      *systray.MenuItem
}

// New creates a Tray with the initial checkbox states.
func New(callbacks Callbacks, version string, dualSnap, login bool) *Tray {
	return &Tray{
		callbacks: callbacks,
		version:   version,
		dualSnap:  dualSnap,
		login:     login,
	}
}

// Run starts the menu-bar loop and blocks until Quit. It must be called from
// the main goroutine.
func (t *Tray) Run(onReady func(), onExit func()) {
	if onExit == nil {
		onExit = func() {}
	}
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle(Title)
	systray.SetTooltip("snaptile " + t.version)

	t.mu.Lock()
	settings := systray.AddMenuItem("Settings", "")
	t.dualSnapItem = settings.AddSubMenuItemCheckbox("Snap Both Windows (Dual Snap)", "Left/Right also snap the previous window to the other half", t.dualSnap)
	t.loginItem = settings.AddSubMenuItemCheckbox("Start at Login", "Launch snaptile when you log in", t.login)
	t.mu.Unlock()

	t.guideBtn = systray.AddMenuItem("Show Guide", "List the hotkeys")
	t.updateBtn = systray.AddMenuItem("Check for Updates", "")

	systray.AddSeparator()
	copyright := systray.AddMenuItem(copyrightLine(time.Now().Year()), "")
	copyright.Disable()
	systray.AddSeparator()

	t.restartBtn = systray.AddMenuItem("Restart", "Relaunch snaptile")
	t.quitBtn = systray.AddMenuItem("Quit", "")

	go t.handleMenuEvents()
}

func copyrightLine(year int) string {
	return fmt.Sprintf("© %d 1broseidon", year)
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.dualSnapItem.ClickedCh:
			if t.callbacks.OnDualSnapToggle != nil {
				t.SetDualSnap(t.callbacks.OnDualSnapToggle())
			}

		case <-t.loginItem.ClickedCh:
			if t.callbacks.OnLoginToggle == nil {
				continue
			}
			t.mu.Lock()
			want := !t.login
			t.mu.Unlock()
			on, err := t.callbacks.OnLoginToggle(want)
			if err != nil {
				continue
			}
			t.setLogin(on)

		case <-t.guideBtn.ClickedCh:
			if t.callbacks.OnShowGuide != nil {
				go t.callbacks.OnShowGuide()
			}

		case <-t.updateBtn.ClickedCh:
			if t.callbacks.OnCheckUpdates != nil {
				go t.callbacks.OnCheckUpdates()
			}

		case <-t.restartBtn.ClickedCh:
			if t.callbacks.OnRestart != nil {
				t.callbacks.OnRestart()
			}
			systray.Quit()
			return

		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

// SetDualSnap updates the dual snap checkbox. Safe from any goroutine.
func (t *Tray) SetDualSnap(on bool) {
	t.mu.Lock()
	t.dualSnap = on
	item := t.dualSnapItem
	t.mu.Unlock()
	setChecked(item, on)
}

func (t *Tray) setLogin(on bool) {
	t.mu.Lock()
	t.login = on
	item := t.loginItem
	t.mu.Unlock()
	setChecked(item, on)
}

func setChecked(item *systray.MenuItem, on bool) {
	if item == nil {
		return
	}
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// Quit closes the menu-bar loop.
func (t *Tray) Quit() {
	systray.Quit()
}
