package client

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

var (
	// ErrNotConnected is returned by send operations while disconnected.
	// No I/O is attempted.
	ErrNotConnected = errors.New("not connected to server")

	// ErrAlreadyConnected is returned by Connect while a connection is open
	// or being opened.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrAlreadyListening is returned by StartListening when the reader loop
	// of the current connection is already running.
	ErrAlreadyListening = errors.New("listener already running")

	// ErrInvalidArgument is returned when a username or recipient is not a
	// single non-empty token.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ConnectError reports a failed handshake with the chat server.
type ConnectError struct {
	Host string
	Port int
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", net.JoinHostPort(e.Host, strconv.Itoa(e.Port)), e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed transmission of a command.
type WriteError struct {
	Command string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("send %s: %v", e.Command, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
