package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/1broseidon/fluentdeco/internal/runtimepath"
)

// Client handles IPC communication with the decoration host
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath, 5*time.Second)
}

// NewClientForSocket creates a client for an explicit socket path.
func NewClientForSocket(socketPath string, timeout time.Duration) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    timeout,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to decoration host: %w (is the preview running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("host error: %s", resp.Error)
	}

	return &resp, nil
}

// Reload sends a RELOAD command and waits for the result.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// NotifyReload asks a running host to reload without reporting the outcome.
// Failures are logged and never retried; no running host is not a failure.
func (c *Client) NotifyReload(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	err := c.Reload()
	switch {
	case err == nil:
		logger.Debug("reload notification delivered", "socket", c.socketPath)
	case errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED):
		logger.Debug("no decoration host to notify", "socket", c.socketPath)
	default:
		logger.Warn("reload notification failed", "socket", c.socketPath, "err", err)
	}
}

// GetStatus retrieves host status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// Ping checks if the host is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
