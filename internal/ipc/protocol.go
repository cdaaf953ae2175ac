package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/snaptile/internal/placement"
	"github.com/1broseidon/snaptile/internal/snap"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandSnap        CommandType = "SNAP"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetDisplays CommandType = "GET_DISPLAYS"
	CommandSetDualSnap CommandType = "SET_DUAL_SNAP"
	CommandRearm       CommandType = "REARM"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SnapPayload is the payload for SNAP. Command is required.
type SnapPayload struct {
	Command *snap.Command `json:"command"`
}

// SnapData is returned by SNAP.
type SnapData = placement.Result

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Version       string `json:"version"`
	DualSnap      bool   `json:"dual_snap"`
	Hotkeys       string `json:"hotkeys"`
	Commands      int    `json:"commands"`
	Rearms        int    `json:"rearms"`
	Reinstalls    int    `json:"reinstalls"`
	Dropped       int64  `json:"dropped"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// DisplayInfo describes one screen. Rectangles use the bottom-left origin.
type DisplayInfo struct {
	Index   int       `json:"index"`
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Primary bool      `json:"primary"`
	Frame   snap.Rect `json:"frame"`
	Visible snap.Rect `json:"visible"`
}

// DisplaysData represents the data returned by GET_DISPLAYS
type DisplaysData struct {
	Displays []DisplayInfo `json:"displays"`
}

// SetDualSnapPayload is the payload for SET_DUAL_SNAP. Toggle wins over
// Enabled.
type SetDualSnapPayload struct {
	Enabled bool `json:"enabled"`
	Toggle  bool `json:"toggle,omitempty"`
}

// DualSnapData is returned by SET_DUAL_SNAP.
type DualSnapData struct {
	Enabled bool `json:"enabled"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
