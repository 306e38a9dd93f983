//go:generate mockgen -destination=../mocks/mock_observer.go -package=mocks github.com/omochice/toy-line-chat/internal/client Observer

// Package client implements the chat client engine: it owns the connection
// to the server, sends protocol commands, reads server lines in the
// background and dispatches the decoded events to registered observers.
package client

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/omochice/toy-line-chat/internal/transport"
	"github.com/omochice/toy-line-chat/internal/transport/tcp"
)

// DefaultEventBuffer is the capacity of the queue between the reader and the
// dispatch goroutine.
const DefaultEventBuffer = 64

// State is the connection state of a Client.
type State int32

const (
	// StateDisconnected means no connection is open.
	StateDisconnected State = iota
	// StateConnecting means Connect is dialing.
	StateConnecting
	// StateConnected means the connection is open and commands can be sent.
	StateConnected
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Client is a chat client for one server connection at a time.
// All methods are safe for concurrent use.
type Client struct {
	// mu guards session and every open/close transition of it.
	mu      sync.Mutex
	session *session
	done    chan struct{}
	state   atomic.Int32

	errMu   sync.RWMutex
	lastErr string

	dialer      transport.Dialer
	eventBuffer int
	log         zerolog.Logger
	observers   *dispatcher
}

// session is one open connection. It is never reused after close.
type session struct {
	id        string
	conn      transport.Conn
	log       zerolog.Logger
	listening bool
	done      chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithDialer selects the transport. The default is raw TCP.
func WithDialer(d transport.Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithEventBuffer sets how many decoded events may wait for dispatch before
// the reader blocks.
func WithEventBuffer(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.eventBuffer = n
		}
	}
}

// New creates a disconnected Client.
func New(opts ...Option) *Client {
	c := &Client{
		dialer:      tcp.Dialer{},
		eventBuffer: DefaultEventBuffer,
		log:         zerolog.Nop(),
		done:        make(chan struct{}),
	}
	close(c.done)
	for _, opt := range opts {
		opt(c)
	}
	c.observers = newDispatcher(c.log)
	return c
}

// Connect opens a connection to host:port. The handshake is bounded by the
// dialer's timeout and by ctx. On failure the client stays disconnected and
// the error is also kept as LastError.
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	if !c.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		return ErrAlreadyConnected
	}

	c.log.Info().Str("host", host).Int("port", port).Msg("connecting")

	conn, err := c.dialer.Dial(ctx, host, port)
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		cerr := &ConnectError{Host: host, Port: port, Err: err}
		c.setLastError(cerr)
		c.log.Warn().Err(err).Str("host", host).Int("port", port).Msg("connect failed")
		return cerr
	}

	id := uuid.NewString()
	s := &session{
		id:   id,
		conn: conn,
		log:  c.log.With().Str("session", id).Str("remote", conn.RemoteAddr()).Logger(),
		done: make(chan struct{}),
	}

	c.mu.Lock()
	c.session = s
	c.done = s.done
	c.state.Store(int32(StateConnected))
	c.mu.Unlock()

	s.log.Info().Msg("connected")
	return nil
}

// Disconnect closes the connection. It is idempotent and safe to call from
// several goroutines at once: exactly one call closes the connection and
// exactly one OnDisconnect notification is delivered.
func (c *Client) Disconnect() {
	c.closeSession(nil)
}

// closeSession closes target, or the current session when target is nil. It
// reports whether this call performed the close.
func (c *Client) closeSession(target *session) bool {
	c.mu.Lock()
	s := c.session
	if s == nil || (target != nil && target != s) {
		c.mu.Unlock()
		return false
	}
	c.session = nil
	closeErr := s.conn.Close()
	c.state.Store(int32(StateDisconnected))
	listening := s.listening
	c.mu.Unlock()

	if closeErr != nil {
		s.log.Debug().Err(closeErr).Msg("close connection")
	}
	s.log.Info().Msg("disconnected")

	// A running listener delivers OnDisconnect itself once queued events
	// are out, so that it is always the last notification of a session.
	if !listening {
		c.observers.disconnected()
		close(s.done)
	}
	return true
}

// IsActive reports whether the client is connected. It never blocks.
func (c *Client) IsActive() bool {
	return c.State() == StateConnected
}

// State returns the current connection state.
func (c *Client) State() State {
	return State(c.state.Load())
}

// Done returns a channel closed once the most recent connection is closed
// and its OnDisconnect notification has been delivered.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// LastError returns the description of the most recent connection or
// transmission error, or "" if there was none.
func (c *Client) LastError() string {
	c.errMu.RLock()
	defer c.errMu.RUnlock()
	return c.lastErr
}

func (c *Client) setLastError(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	c.lastErr = err.Error()
}

// AddObserver registers o for all future events. Registering the same
// observer twice has no effect.
func (c *Client) AddObserver(o Observer) {
	c.observers.add(o)
}

// RemoveObserver unregisters o.
func (c *Client) RemoveObserver(o Observer) {
	c.observers.remove(o)
}

// current returns the open session or nil.
func (c *Client) current() *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
