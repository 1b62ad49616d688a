package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bordertile/internal/ipc"
)

const (
	ServerName    = "bordertile"
	ServerVersion = "0.1.0"
)

// DaemonClient is the subset of the IPC client the tools call.
type DaemonClient interface {
	Reload() error
	GetStatus() (*ipc.StatusData, error)
	ListBorders() (*ipc.BordersData, error)
	GetMonitors() (*ipc.MonitorsData, error)
}

// Server is the MCP server exposing the border daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    DaemonClient
}

// NewServer creates a new MCP server that talks to the running daemon.
func NewServer(daemon DaemonClient) *Server {
	if daemon == nil {
		daemon = ipc.NewClient()
	}
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_borders",
		Description: "List every window that currently has a bordertile border, with its lifecycle state (initializing, active, hidden, paused), visibility, focus and window class/title.",
	}, s.handleListBorders)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_borders",
		Description: "Reload the bordertile configuration file and recreate every border. Fails without changing anything when the configuration is invalid.",
	}, s.handleReloadBorders)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "daemon_status",
		Description: "Report whether the bordertile daemon is running, how many borders it tracks and which window is focused.",
	}, s.handleDaemonStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the monitors known to the bordertile daemon with their geometry and the usable area left by docks and panels.",
	}, s.handleListMonitors)
}

func (s *Server) handleListBorders(_ context.Context, _ *mcpsdk.CallToolRequest, args ListBordersInput) (*mcpsdk.CallToolResult, ListBordersOutput, error) {
	data, err := s.daemon.ListBorders()
	if err != nil {
		return nil, ListBordersOutput{}, err
	}

	class := strings.ToLower(strings.TrimSpace(args.Class))
	out := ListBordersOutput{Borders: make([]BorderInfo, 0, len(data.Borders))}
	for _, b := range data.Borders {
		if args.VisibleOnly && !b.Visible {
			continue
		}
		if class != "" && !strings.Contains(strings.ToLower(b.Class), class) {
			continue
		}
		out.Borders = append(out.Borders, BorderInfo{
			Window:  hexID(b.Window),
			Overlay: hexID(b.Overlay),
			State:   b.State,
			Visible: b.Visible,
			Active:  b.Active,
			Title:   b.Title,
			Class:   b.Class,
		})
	}
	out.Count = len(out.Borders)
	return nil, out, nil
}

func (s *Server) handleReloadBorders(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadBordersInput) (*mcpsdk.CallToolResult, ReloadBordersOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, ReloadBordersOutput{}, err
	}
	out := ReloadBordersOutput{Reloaded: true}
	if status, err := s.daemon.GetStatus(); err == nil {
		out.BorderCount = status.BorderCount
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Configuration reloaded, %d borders", out.BorderCount)},
		},
	}, out, nil
}

// handleDaemonStatus reports a stopped daemon as a result rather than a tool
// error so callers can poll it.
func (s *Server) handleDaemonStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ DaemonStatusInput) (*mcpsdk.CallToolResult, DaemonStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, DaemonStatusOutput{Error: err.Error()}, nil
	}
	out := DaemonStatusOutput{
		Running:       status.DaemonRunning,
		BorderCount:   status.BorderCount,
		VisibleCount:  status.VisibleCount,
		ConfigPath:    status.ConfigPath,
		UptimeSeconds: status.UptimeSeconds,
	}
	if status.ActiveWindow != 0 {
		out.ActiveWindow = hexID(status.ActiveWindow)
	}
	return nil, out, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorInfo(m))
	}
	return nil, out, nil
}

func hexID(id uint32) string {
	return fmt.Sprintf("0x%x", id)
}
