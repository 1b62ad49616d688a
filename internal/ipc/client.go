package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/bordertile/internal/runtimepath"
)

const defaultTimeout = 5 * time.Second

// Client talks to the daemon socket. Each call opens its own connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient returns a client for the socket of the current display.
func NewClient() *Client {
	// An unresolvable path surfaces as a connection error on first use.
	socketPath, _ := runtimepath.SocketPath()
	return newClient(socketPath)
}

func newClient(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: defaultTimeout}
}

// roundTrip writes one request line and reads one response line.
func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	// Encode terminates the request with a newline, which the server frames on.
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", req.Command, err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", req.Command, err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// request sends cmd and decodes the response data into out when non-nil.
func (c *Client) request(cmd CommandType, out any) error {
	resp, err := c.roundTrip(context.Background(), &Request{Command: cmd})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload asks the daemon to reload its configuration and recreate borders.
func (c *Client) Reload() error {
	return c.request(CommandReload, nil)
}

func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.request(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListBorders retrieves every live border.
func (c *Client) ListBorders() (*BordersData, error) {
	var data BordersData
	if err := c.request(CommandListBorders, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.request(CommandGetMonitors, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// Ping reports whether the daemon answers.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
