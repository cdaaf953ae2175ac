package snap

import (
	"fmt"
	"strings"
)

// Command is a window placement action triggered by a hotkey or a client.
type Command int

const (
	Left Command = iota
	Right
	Maximize
	Reset
	MoveToNextDisplay
)

// Commands lists every command in declaration order.
var Commands = []Command{Left, Right, Maximize, Reset, MoveToNextDisplay}

func (c Command) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	case Maximize:
		return "maximize"
	case Reset:
		return "reset"
	case MoveToNextDisplay:
		return "next_display"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Valid reports whether c is one of the declared commands.
func (c Command) Valid() bool {
	return c >= Left && c <= MoveToNextDisplay
}

// Opposite returns the mirrored half for Left and Right.
func (c Command) Opposite() (Command, bool) {
	switch c {
	case Left:
		return Right, true
	case Right:
		return Left, true
	default:
		return c, false
	}
}

// ParseCommand accepts the names produced by String plus a few aliases
// used on the command line.
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "maximize", "max":
		return Maximize, nil
	case "reset", "center":
		return Reset, nil
	case "next_display", "next-display", "next":
		return MoveToNextDisplay, nil
	default:
		return 0, fmt.Errorf("unknown command %q (expected left, right, maximize, reset or next_display)", s)
	}
}

// MarshalText implements encoding.TextMarshaler so commands can key YAML
// and JSON maps.
func (c Command) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid command %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Command) UnmarshalText(text []byte) error {
	parsed, err := ParseCommand(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
