// Package server runs the reference chat server. One listening port serves
// both raw TCP clients and WebSocket clients; every connection is handed to
// a shared chat.Hub.
package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/omochice/toy-line-chat/internal/chat"
	"github.com/omochice/toy-line-chat/internal/transport"
	"github.com/omochice/toy-line-chat/internal/transport/tcp"
	"github.com/omochice/toy-line-chat/internal/transport/ws"
)

// ErrServerClosed is returned by Serve and Start after Stop.
var ErrServerClosed = errors.New("server stopped")

// Server represents a chat server on a single port.
type Server struct {
	address  string
	listener net.Listener
	hub      *chat.Hub
	log      zerolog.Logger

	// detectTimeout bounds how long a new connection may stay silent before
	// its protocol is known. Zero means no limit.
	detectTimeout time.Duration

	// mu guards listener, conns and the closing of quit.
	mu    sync.Mutex
	conns map[net.Conn]struct{}

	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithDetectTimeout drops connections that send nothing within d of being
// accepted. A client that only listens before logging in sends nothing, so
// the default is no limit.
func WithDetectTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.detectTimeout = d
		}
	}
}

// New creates a new Server instance.
func New(address string, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		address: address,
		hub:     chat.NewHub(log),
		log:     log,
		conns:   make(map[net.Conn]struct{}),
		quit:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen opens the listening socket without accepting yet.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.log.Info().Str("addr", listener.Addr().String()).Msg("server started (TCP and WebSocket)")
	return nil
}

// Serve accepts connections until Stop is called.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return ErrServerClosed
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.log.Warn().Err(err).Msg("failed to accept connection")
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !s.track(conn) {
			_ = conn.Close()
			return ErrServerClosed
		}
		go s.handleConnection(conn)
	}
}

// Start listens and serves. It blocks until Stop.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop closes the listener and every open connection, then waits for their
// handlers to finish.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		close(s.quit)
		if s.listener != nil {
			_ = s.listener.Close()
		}
		for conn := range s.conns {
			_ = conn.Close()
		}
		s.mu.Unlock()
	})
	s.wg.Wait()
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// ClientCount returns the number of clients registered with the hub.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

// Hub exposes the shared hub.
func (s *Server) Hub() *chat.Hub {
	return s.hub
}

// track registers conn for Stop and counts its handler. It fails once Stop
// has begun.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.quit:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// handleConnection determines whether the connection is HTTP (WebSocket) or
// raw TCP and then serves it.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	id := uuid.NewString()
	log := s.log.With().Str("conn", id).Str("remote", conn.RemoteAddr().String()).Logger()

	if s.detectTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.detectTimeout))
	}
	proto, reader, err := detectProtocol(conn)
	if err != nil {
		log.Debug().Err(err).Msg("connection closed before first line")
		return
	}

	var lc transport.Conn
	switch proto {
	case protocolHTTP:
		wc, err := ws.Upgrade(conn, reader)
		if err != nil {
			log.Warn().Err(err).Msg("failed to upgrade connection")
			return
		}
		lc = wc
	default:
		lc = tcp.NewConnWithReader(conn, reader)
	}
	if s.detectTimeout > 0 {
		_ = conn.SetReadDeadline(time.Time{})
	}

	log = log.With().Stringer("protocol", proto).Logger()
	log.Info().Msg("client connected")
	s.serveClient(chat.NewClient(id, lc), log)
	log.Info().Msg("client disconnected")
}

// serveClient pumps lines between the client and the hub until the client
// goes away.
func (s *Server) serveClient(client *chat.Client, log zerolog.Logger) {
	s.hub.Register(client)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for line := range client.Outgoing {
			if err := client.Conn.WriteLine(line); err != nil {
				log.Warn().Err(err).Msg("failed to send line to client")
				_ = client.Conn.Close()
				return
			}
		}
	}()

	defer func() {
		// Nothing enqueues for an unregistered client except its own reader,
		// which has returned by now.
		s.hub.Unregister(client)
		close(client.Outgoing)
		<-writerDone
		_ = client.Conn.Close()
	}()

	for {
		line, err := client.Conn.ReadLine()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Debug().Err(err).Msg("read ended")
			}
			return
		}
		log.Debug().Str("line", line).Msg("received")
		s.hub.Handle(client, line)
	}
}
