package hotkeys

// Virtual keycodes for the ANSI layout as reported by kCGKeyboardEventKeycode.
var macKeycodes = map[int]Key{
	0: "a", 1: "s", 2: "d", 3: "f", 4: "h", 5: "g", 6: "z", 7: "x",
	8: "c", 9: "v", 11: "b", 12: "q", 13: "w", 14: "e", 15: "r",
	16: "y", 17: "t", 18: "1", 19: "2", 20: "3", 21: "4", 22: "6",
	23: "5", 25: "9", 26: "7", 28: "8", 29: "0", 31: "o", 32: "u",
	34: "i", 35: "p", 37: "l", 38: "j", 40: "k", 45: "n", 46: "m",
	36: KeyReturn, 48: KeyTab, 49: KeySpace,
	123: KeyLeft, 124: KeyRight, 125: KeyDown, 126: KeyUp,
}

// CGEventFlags masks.
const (
	macFlagShift   = 1 << 17
	macFlagControl = 1 << 18
	macFlagOption  = 1 << 19
	macFlagCommand = 1 << 20
)

// macKeyEvent converts a raw keycode and flag word into a KeyEvent.
func macKeyEvent(keycode int, flags uint64) (KeyEvent, bool) {
	key, ok := macKeycodes[keycode]
	if !ok {
		return KeyEvent{}, false
	}
	ev := KeyEvent{Key: key}
	if flags&macFlagCommand != 0 {
		ev.Mods |= Cmd
	}
	if flags&macFlagOption != 0 {
		ev.Mods |= Opt
	}
	if flags&macFlagControl != 0 {
		ev.Mods |= Ctrl
	}
	if flags&macFlagShift != 0 {
		ev.Mods |= Shift
	}
	return ev, true
}
