package client

import (
	"fmt"

	"github.com/omochice/toy-line-chat/pkg/protocol"
)

// StartListening starts reading server lines in the background. Decoded
// events are handed to a dispatch goroutine that calls the observers. The
// listener ends when the connection is closed, by Disconnect or by a read
// fault, after which OnDisconnect is delivered.
func (c *Client) StartListening() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return ErrNotConnected
	}
	if s.listening {
		return ErrAlreadyListening
	}
	s.listening = true

	events := make(chan protocol.Event, c.eventBuffer)
	go c.readLoop(s, events)
	go c.dispatchLoop(s, events)

	s.log.Debug().Msg("listening")
	return nil
}

// readLoop reads lines until the connection fails. Only a read fault ends
// it; malformed and unknown lines are skipped.
func (c *Client) readLoop(s *session, events chan<- protocol.Event) {
	defer close(events)

	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			// A failed read after Disconnect is the expected way out.
			if c.closeSession(s) {
				c.setLastError(fmt.Errorf("read: %w", err))
				s.log.Warn().Err(err).Msg("connection lost")
			}
			return
		}

		s.log.Debug().Str("line", line).Msg("received")

		ev, err := protocol.Decode(line)
		if err != nil {
			s.log.Warn().Err(err).Msg("skipping malformed line")
			continue
		}
		if ev == nil {
			continue
		}
		events <- ev
	}
}

// dispatchLoop delivers queued events in order, then OnDisconnect.
func (c *Client) dispatchLoop(s *session, events <-chan protocol.Event) {
	defer close(s.done)

	for ev := range events {
		if lr, ok := ev.(protocol.LoginResult); ok && !lr.Success {
			lr.Message = c.LastError()
			s.log.Info().Str("reason", lr.Reason).Msg("login rejected")
			ev = lr
		}
		c.observers.dispatch(ev)
	}
	c.observers.disconnected()
}
