//go:build linux

package hotkeys

import (
	"errors"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/snaptile/internal/platform"
)

// x11Accessor is implemented by backends that expose their X connection.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
}

var x11Keysyms = map[Key]string{
	KeyLeft:   "Left",
	KeyRight:  "Right",
	KeyUp:     "Up",
	KeyDown:   "Down",
	KeyReturn: "Return",
	KeySpace:  "space",
	KeyTab:    "Tab",
}

var ignoreModsOnce sync.Once

// grabTap holds passive key grabs on the root window. X never disables a
// grab on its own, so HandleDisabled is never called.
type grabTap struct {
	mu       sync.Mutex
	xu       *xgbutil.XUtil
	root     xproto.Window
	sink     Sink
	bindings []Binding
	on       bool
	closed   bool
}

// NewInstaller returns an Installer that grabs each combo on the root
// window of the backend's X connection.
func NewInstaller(backend platform.Backend) (Installer, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, errors.New("hotkeys: backend has no X11 connection")
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return func(sink Sink, bindings []Binding) (Tap, error) {
		t := &grabTap{
			xu:       xu,
			root:     xu.RootWin(),
			sink:     sink,
			bindings: bindings,
		}
		if err := t.Enable(true); err != nil {
			return nil, err
		}
		return t, nil
	}, nil
}

func (t *grabTap) Enable(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrNotInstalled
	}
	if on == t.on {
		return nil
	}
	if !on {
		keybind.Detach(t.xu, t.root)
		t.on = false
		return nil
	}
	if err := t.grab(); err != nil {
		keybind.Detach(t.xu, t.root)
		return err
	}
	t.on = true
	return nil
}

func (t *grabTap) grab() error {
	bound := make(map[Combo]bool, len(t.bindings))
	for _, b := range t.bindings {
		bound[b.Combo] = true
	}
	for _, b := range t.bindings {
		combos := []Combo{b.Combo}
		// Shift is ignored unless some binding names it.
		if shifted := (Combo{Mods: b.Combo.Mods | Shift, Key: b.Combo.Key}); !bound[shifted] {
			combos = append(combos, shifted)
			bound[shifted] = true
		}
		for _, c := range combos {
			ev := KeyEvent{Key: c.Key, Mods: c.Mods}
			err := keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {
				t.sink.HandleKey(ev)
			}).Connect(t.xu, t.root, keySequence(c), true)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *grabTap) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on && !t.closed
}

func (t *grabTap) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	if t.on {
		keybind.Detach(t.xu, t.root)
	}
	t.on = false
	t.closed = true
	return nil
}

// keySequence renders c in xgbutil's keybind syntax, e.g. "Mod4-Mod1-Left".
func keySequence(c Combo) string {
	var parts []string
	if c.Mods&Ctrl != 0 {
		parts = append(parts, "Control")
	}
	if c.Mods&Opt != 0 {
		parts = append(parts, "Mod1")
	}
	if c.Mods&Cmd != 0 {
		parts = append(parts, "Mod4")
	}
	if c.Mods&Shift != 0 {
		parts = append(parts, "Shift")
	}
	key, ok := x11Keysyms[c.Key]
	if !ok {
		key = string(c.Key)
	}
	return strings.Join(append(parts, key), "-")
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
