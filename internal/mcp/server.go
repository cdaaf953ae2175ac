package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/ipc"
	"github.com/1broseidon/snaptile/internal/snap"
)

const ServerName = "snaptile"

// Daemon is the slice of the IPC client the tools need.
type Daemon interface {
	Snap(cmd snap.Command) (*ipc.SnapData, error)
	GetStatus() (*ipc.StatusData, error)
	GetDisplays() (*ipc.DisplaysData, error)
	SetDualSnap(enabled bool) (bool, error)
}

// Server is the MCP server that forwards window commands to a running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	log       zerolog.Logger
}

// NewServer creates an MCP server backed by daemon.
func NewServer(daemon Daemon, version string, logger zerolog.Logger) *Server {
	s := &Server{
		mcpServer: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		}, nil),
		daemon: daemon,
		log:    logger.With().Str("component", "mcp").Logger(),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Msg("MCP server starting on stdio")
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_window",
		Description: "Snap the frontmost window of the frontmost application. direction is left or right (half of the visible display area), maximize (the whole visible area) or reset (the visible area scaled down by 1.75 and centered). With dual snap on, left/right also place the second frontmost window on the other half.",
	}, s.handleSnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_next_display",
		Description: "Move the frontmost window to the top-left corner of the next display's visible area, keeping its size. Displays are cycled in order. Does nothing with a single display.",
	}, s.handleMoveToNextDisplay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List connected displays in order with their full and visible frames. The first display is primary; coordinates have a bottom-left origin.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the daemon version, dual snap setting, hotkey listener state and command counters.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_dual_snap",
		Description: "Turn dual snap on or off. The setting is persisted by the daemon.",
	}, s.handleSetDualSnap)
}

func (s *Server) handleSnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapWindowInput) (*mcpsdk.CallToolResult, SnapWindowOutput, error) {
	cmd, err := snap.ParseCommand(args.Direction)
	if err != nil {
		return nil, SnapWindowOutput{}, err
	}
	if cmd == snap.MoveToNextDisplay {
		return nil, SnapWindowOutput{}, fmt.Errorf("direction %q is not a snap; use move_to_next_display", args.Direction)
	}
	return s.run(cmd)
}

func (s *Server) handleMoveToNextDisplay(_ context.Context, _ *mcpsdk.CallToolRequest, _ MoveToNextDisplayInput) (*mcpsdk.CallToolResult, SnapWindowOutput, error) {
	return s.run(snap.MoveToNextDisplay)
}

func (s *Server) run(cmd snap.Command) (*mcpsdk.CallToolResult, SnapWindowOutput, error) {
	res, err := s.daemon.Snap(cmd)
	if err != nil {
		s.log.Debug().Err(err).Str("command", cmd.String()).Msg("tool command failed")
		return nil, SnapWindowOutput{}, err
	}
	return nil, SnapWindowOutput{
		Command: res.Command.String(),
		Screen:  res.Screen,
		Windows: res.Windows,
		Note:    res.Note,
	}, nil
}

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	data, err := s.daemon.GetDisplays()
	if err != nil {
		return nil, ListDisplaysOutput{}, err
	}
	out := ListDisplaysOutput{Displays: make([]DisplayOutput, 0, len(data.Displays))}
	for _, d := range data.Displays {
		out.Displays = append(out.Displays, DisplayOutput{
			Index:   d.Index,
			Name:    d.Name,
			Primary: d.Primary,
			Frame:   d.Frame,
			Visible: d.Visible,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		Version:       st.Version,
		DualSnap:      st.DualSnap,
		Hotkeys:       st.Hotkeys,
		Commands:      st.Commands,
		Rearms:        st.Rearms,
		Reinstalls:    st.Reinstalls,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleSetDualSnap(_ context.Context, _ *mcpsdk.CallToolRequest, args SetDualSnapInput) (*mcpsdk.CallToolResult, SetDualSnapOutput, error) {
	enabled, err := s.daemon.SetDualSnap(args.Enabled)
	if err != nil {
		return nil, SetDualSnapOutput{}, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("dual snap %s", onOff(enabled))},
		},
	}, SetDualSnapOutput{Enabled: enabled}, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
