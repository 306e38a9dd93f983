package client

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/omochice/toy-line-chat/pkg/protocol"
)

// Login asks the server to log in as username. The outcome arrives as
// OnLoginResult.
func (c *Client) Login(username string) error {
	if err := validToken("username", username); err != nil {
		return err
	}
	return c.send(protocol.Login(username))
}

// SendPublic sends text to every logged-in user.
func (c *Client) SendPublic(text string) error {
	return c.send(protocol.Public(text))
}

// SendPrivate sends text to recipient only.
func (c *Client) SendPrivate(recipient, text string) error {
	if err := validToken("recipient", recipient); err != nil {
		return err
	}
	return c.send(protocol.Private(recipient, text))
}

// RequestUserList asks for the logged-in users. The answer arrives as
// OnUserList.
func (c *Client) RequestUserList() error {
	return c.send(protocol.Users())
}

// RequestSupportedCommands asks which commands the server accepts. The
// answer arrives as OnSupportedCommands.
func (c *Client) RequestSupportedCommands() error {
	return c.send(protocol.Help())
}

// send encodes cmd and writes it on the current connection. A write failure
// is kept as LastError; it does not close the connection. A write that loses
// a race with Disconnect reports ErrNotConnected.
func (c *Client) send(cmd protocol.Command) error {
	s := c.current()
	if s == nil {
		return ErrNotConnected
	}

	line, err := cmd.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", cmd.Word, err)
	}

	if err := s.conn.WriteLine(line); err != nil {
		// Disconnect closed the connection while the line was going out.
		if errors.Is(err, net.ErrClosed) {
			return ErrNotConnected
		}
		werr := &WriteError{Command: cmd.Word, Err: err}
		c.setLastError(werr)
		s.log.Warn().Err(err).Str("command", cmd.Word).Msg("send failed")
		return werr
	}

	s.log.Debug().Str("line", line).Msg("sent")
	return nil
}

func validToken(what, s string) error {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return fmt.Errorf("%w: %s must be a single word, got %q", ErrInvalidArgument, what, s)
	}
	return nil
}
