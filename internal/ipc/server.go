package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/snaptile/internal/daemon"
)

// DefaultReplyTimeout bounds how long a request waits for the processor.
const DefaultReplyTimeout = 3 * time.Second

var errBusy = errors.New("daemon busy, event queue full")

// Poster accepts processor events.
type Poster interface {
	Post(ev daemon.Event) bool
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	poster       Poster
	version      string
	timeout      time.Duration
	log          zerolog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server bound to socketPath.
func NewServer(socketPath string, poster Poster, version string, logger zerolog.Logger) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		poster:     poster,
		version:    version,
		timeout:    DefaultReplyTimeout,
		log:        logger.With().Str("component", "ipc").Logger(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout + time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Debug().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.write(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.log.Debug().Str("command", string(req.Command)).Msg("IPC request")
	s.write(conn, s.handleCommand(req))
}

func (s *Server) write(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal response")
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.Debug().Err(err).Msg("failed to send response")
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandSnap:
		return s.handleSnap(req.Payload)
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetDisplays:
		return s.handleGetDisplays()
	case CommandSetDualSnap:
		return s.handleSetDualSnap(req.Payload)
	case CommandRearm:
		return s.handleRearm()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleSnap(payload json.RawMessage) *Response {
	var p SnapPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid snap payload: %v", err))
	}
	if p.Command == nil {
		return NewErrorResponse("Invalid snap payload: missing command")
	}
	cmd := *p.Command

	ch := make(chan daemon.CommandReply, 1)
	reply, err := await(s, daemon.CommandEvent{Command: cmd, Reply: ch}, ch)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if reply.Err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to %s: %v", cmd, reply.Err))
	}
	return okResponse(reply.Result)
}

func (s *Server) handleGetStatus() *Response {
	ch := make(chan daemon.Status, 1)
	st, err := await(s, daemon.StatusEvent{Reply: ch}, ch)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(StatusData{
		Version:       s.version,
		DualSnap:      st.DualSnap,
		Hotkeys:       st.Hotkeys,
		Commands:      st.Commands,
		Rearms:        st.Rearms,
		Reinstalls:    st.Reinstalls,
		Dropped:       st.Dropped,
		UptimeSeconds: int64(st.Uptime().Seconds()),
		DaemonRunning: true,
	})
}

func (s *Server) handleGetDisplays() *Response {
	ch := make(chan daemon.DisplaysReply, 1)
	reply, err := await(s, daemon.DisplaysEvent{Reply: ch}, ch)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if reply.Err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", reply.Err))
	}

	infos := make([]DisplayInfo, len(reply.Screens))
	for i, sc := range reply.Screens {
		infos[i] = DisplayInfo{
			Index:   i,
			ID:      sc.ID,
			Name:    sc.Name,
			Primary: i == 0,
			Frame:   sc.Frame,
			Visible: sc.Visible,
		}
	}
	return okResponse(DisplaysData{Displays: infos})
}

func (s *Server) handleSetDualSnap(payload json.RawMessage) *Response {
	var p SetDualSnapPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid dual snap payload: %v", err))
	}

	ch := make(chan bool, 1)
	enabled, err := await(s, daemon.SetDualSnapEvent{Enabled: p.Enabled, Toggle: p.Toggle, Reply: ch}, ch)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(DualSnapData{Enabled: enabled})
}

func (s *Server) handleRearm() *Response {
	ch := make(chan error, 1)
	reinstallErr, err := await(s, daemon.ReinstallEvent{Reply: ch}, ch)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if reinstallErr != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reinstall hotkeys: %v", reinstallErr))
	}
	return okResponse(nil)
}

// await posts ev and waits for the processor to answer on ch.
func await[T any](s *Server, ev daemon.Event, ch <-chan T) (T, error) {
	var zero T
	if !s.poster.Post(ev) {
		return zero, errBusy
	}
	select {
	case v := <-ch:
		return v, nil
	case <-time.After(s.timeout):
		return zero, fmt.Errorf("timed out after %s waiting for daemon", s.timeout)
	}
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}
