// Package ipc provides the local Unix-socket channel the CLI sub-commands
// (cut/tap/list/...) use to talk to a running bobble daemon. The daemon
// listens on the socket; sub-commands probe for it before dialling.
package ipc

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const dialTimeout = 2 * time.Second

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - Linux / macOS: $TMPDIR/bobble.sock  (override with $BOBBLE_SOCKET)
//   - Windows:       \\.\pipe\bobble      (named pipe, not yet implemented)
func SocketPath() string {
	if s := os.Getenv("BOBBLE_SOCKET"); s != "" {
		return s
	}
	if runtime.GOOS == "windows" {
		return `\\.\pipe\bobble`
	}
	return filepath.Join(os.TempDir(), "bobble.sock")
}

// IsRunning reports whether a bobble daemon appears to be listening on the
// IPC socket. A cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.DialTimeout("unix", SocketPath(), dialTimeout)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a net.Listener on the IPC socket path, removing any stale
// socket file from a previous (crashed) run first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	_ = os.Remove(path)
	return net.Listen("unix", path)
}

// Dial connects to the daemon's IPC socket.
func Dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", SocketPath(), dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", SocketPath(), err)
	}
	return conn, nil
}
