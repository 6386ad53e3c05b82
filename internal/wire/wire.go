// Package wire frames bobble IPC messages over a net.Conn: one
// newline-terminated JSON message per line, optionally sealed with NaCl
// secretbox. Encrypted messages travel as a single base64 blob per line so
// the framing logic is identical either way.
package wire

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net"
	"time"

	"github.com/kexlie/bobble/internal/message"
	"github.com/kexlie/bobble/internal/secret"
)

const (
	// MaxMessageSize bounds a single line. Captures are capped at 1 MiB of
	// text before they reach the wire; 4 MiB leaves room for base64 and
	// envelope overhead.
	MaxMessageSize = 4 * 1024 * 1024

	writeDeadline = 5 * time.Second
)

// Conn wraps a net.Conn with line framing and optional encryption.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
	key  *[secret.KeySize]byte // nil = plaintext
}

// New wraps conn. A non-nil key seals every outgoing message and opens every
// incoming one.
func New(conn net.Conn, key *[secret.KeySize]byte) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
		key:  key,
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// WriteMsg serialises msg, seals it if a key is set, and writes one line.
func (c *Conn) WriteMsg(msg *message.Message) error {
	raw, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	var line []byte
	if c.key != nil {
		sealed, err := secret.Seal(raw, c.key)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		line = append([]byte(base64.StdEncoding.EncodeToString(sealed)), '\n')
	} else {
		line = append(raw, '\n')
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, err = c.conn.Write(line)
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadMsg reads one line, opens it if a key is set, and deserialises it.
func (c *Conn) ReadMsg() (*message.Message, error) {
	line, err := c.br.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	if len(line) > MaxMessageSize {
		return nil, fmt.Errorf("message too large (%d bytes)", len(line))
	}
	line = line[:len(line)-1] // strip newline

	raw := line
	if c.key != nil {
		sealed, err := base64.StdEncoding.DecodeString(string(line))
		if err != nil {
			return nil, fmt.Errorf("base64 decode: %w", err)
		}
		raw, err = secret.Open(sealed, c.key)
		if err != nil {
			return nil, fmt.Errorf("decrypt: %w", err)
		}
	}
	return message.Decode(raw)
}
