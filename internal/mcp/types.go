package mcp

import "github.com/1broseidon/snaptile/internal/snap"

// SnapWindowInput is the input for the snap_window tool.
type SnapWindowInput struct {
	Direction string `json:"direction" jsonschema:"required,One of left, right, maximize or reset. Aliases max and center are accepted."`
}

// SnapWindowOutput reports what the daemon did.
type SnapWindowOutput struct {
	Command string `json:"command"`
	Screen  string `json:"screen,omitempty"`
	Windows int    `json:"windows"`
	Note    string `json:"note,omitempty"`
}

// MoveToNextDisplayInput is the (empty) input for the move_to_next_display tool.
type MoveToNextDisplayInput struct{}

// ListDisplaysInput is the (empty) input for the list_displays tool.
type ListDisplaysInput struct{}

// DisplayOutput describes one display in bottom-left screen coordinates.
type DisplayOutput struct {
	Index   int       `json:"index"`
	Name    string    `json:"name"`
	Primary bool      `json:"primary"`
	Frame   snap.Rect `json:"frame"`
	Visible snap.Rect `json:"visible"`
}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []DisplayOutput `json:"displays"`
}

// GetStatusInput is the (empty) input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Version       string `json:"version"`
	DualSnap      bool   `json:"dual_snap"`
	Hotkeys       string `json:"hotkeys"`
	Commands      int    `json:"commands"`
	Rearms        int    `json:"rearms"`
	Reinstalls    int    `json:"reinstalls"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// SetDualSnapInput is the input for the set_dual_snap tool.
type SetDualSnapInput struct {
	Enabled bool `json:"enabled" jsonschema:"required,Whether Left/Right snaps also place the second frontmost window on the opposite half"`
}

// SetDualSnapOutput is the output for the set_dual_snap tool.
type SetDualSnapOutput struct {
	Enabled bool `json:"enabled"`
}
