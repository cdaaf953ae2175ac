package hotkeys

import (
	"fmt"

	"github.com/1broseidon/snaptile/internal/snap"
)

// Decoder maps key events onto commands. It is immutable and safe to use
// from the tap's own thread.
type Decoder struct {
	bindings []Binding
}

// NewDecoder rejects binding sets where two commands share a combo or one
// command appears twice.
func NewDecoder(bindings []Binding) (*Decoder, error) {
	seenCombo := make(map[Combo]snap.Command, len(bindings))
	seenCmd := make(map[snap.Command]bool, len(bindings))
	for _, b := range bindings {
		if !b.Command.Valid() {
			return nil, fmt.Errorf("binding for invalid command %d", int(b.Command))
		}
		if other, ok := seenCombo[b.Combo]; ok {
			return nil, fmt.Errorf("%s is bound to both %s and %s", b.Combo, other, b.Command)
		}
		if seenCmd[b.Command] {
			return nil, fmt.Errorf("%s is bound more than once", b.Command)
		}
		seenCombo[b.Combo] = b.Command
		seenCmd[b.Command] = true
	}
	return &Decoder{bindings: append([]Binding(nil), bindings...)}, nil
}

// Decode returns the command for ev. A combo naming Shift beats one that
// ignores it.
func (d *Decoder) Decode(ev KeyEvent) (snap.Command, bool) {
	var (
		found bool
		cmd   snap.Command
	)
	for _, b := range d.bindings {
		if !b.Combo.Matches(ev) {
			continue
		}
		if b.Combo.Mods&Shift != 0 {
			return b.Command, true
		}
		if !found {
			cmd, found = b.Command, true
		}
	}
	return cmd, found
}

// Bindings returns a copy of the decoder's bindings.
func (d *Decoder) Bindings() []Binding {
	return append([]Binding(nil), d.bindings...)
}
