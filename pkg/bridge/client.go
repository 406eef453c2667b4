package bridge

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/adrg/xdg"
	"net"
	"os"
	"strings"
	"sync"
)

var ErrNotRunning = errors.New("input method shim might not be running")

const socketEnv = "ONGEUL_BRIDGE_SOCKET"

type Client struct {
	conn    net.Conn
	reader  *bufio.Reader
	writeMu sync.Mutex
}

func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn, reader: bufio.NewReader(conn)}
}

func Connect(socketPath string) (*Client, error) {
	if socketPath == "" {
		path, err := GetSocketPath()
		if err != nil {
			return nil, fmt.Errorf("get socket path: %w", err)
		}
		socketPath = path
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial: %w, %w", err, ErrNotRunning)
	}

	return NewClient(conn), nil
}

func GetSocketPath() (string, error) {
	if path := os.Getenv(socketEnv); path != "" {
		return path, nil
	}

	path, err := xdg.SearchRuntimeFile("ongeul/bridge.sock")
	if err != nil {
		return "", fmt.Errorf("%s is not set and no socket in the runtime dir, %w", socketEnv, ErrNotRunning)
	}
	return path, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) ReadLine() (string, error) {
	str, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read from bridge socket: %w", err)
	}
	return strings.TrimSuffix(str, "\n"), nil
}

// WriteLine sends one kind>>payload line. Safe for concurrent use.
func (c *Client) WriteLine(kind, payload string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := fmt.Fprintf(c.conn, "%s%s%s\n", kind, separator, payload); err != nil {
		return fmt.Errorf("write to bridge socket: %w", err)
	}
	return nil
}
