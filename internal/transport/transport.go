// Package transport defines the line-oriented connection shared by the chat
// client and the reference server. Implementations live in the tcp and ws
// subpackages.
package transport

import (
	"context"
	"errors"
)

// MaxLineLength bounds a single protocol line, terminator excluded.
const MaxLineLength = 64 * 1024

// ErrLineTooLong is returned by ReadLine when the peer sends a line longer
// than MaxLineLength. The stream is unusable afterwards.
var ErrLineTooLong = errors.New("line too long")

// Conn abstracts a bidirectional line stream for both TCP and WebSocket.
type Conn interface {
	// ReadLine blocks until one full line is available and returns it without
	// the terminator. io.EOF means the peer closed the stream.
	ReadLine() (string, error)

	// WriteLine sends line followed by the terminator and flushes it.
	// Safe for concurrent use.
	WriteLine(line string) error

	// Close closes the connection and unblocks a pending ReadLine.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}

// Dialer opens a Conn to a chat server.
type Dialer interface {
	Dial(ctx context.Context, host string, port int) (Conn, error)
}
