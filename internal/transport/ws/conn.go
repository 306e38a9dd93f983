// Package ws provides the WebSocket line transport using gobwas/ws.
// Every protocol line travels as one text frame without its terminator.
package ws

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/omochice/toy-line-chat/internal/transport"
)

const closeFrameTimeout = time.Second

// Conn adapts a WebSocket net.Conn to transport.Conn.
type Conn struct {
	conn  net.Conn
	rw    io.ReadWriter
	state ws.State

	// lines split out of a frame that carried more than one line
	pending []string

	wmu sync.Mutex
}

type readWriter struct {
	io.Reader
	io.Writer
}

// NewClientConn wraps the client side of an upgraded connection. br is the
// reader returned by the handshake and may be nil.
func NewClientConn(conn net.Conn, br *bufio.Reader) *Conn {
	var rw io.ReadWriter = conn
	if br != nil {
		rw = readWriter{Reader: br, Writer: conn}
	}
	return &Conn{conn: conn, rw: rw, state: ws.StateClientSide}
}

// NewServerConn wraps the server side of an upgraded connection, reading
// through r so that bytes buffered during the upgrade are not lost.
func NewServerConn(conn net.Conn, r io.Reader) *Conn {
	if r == nil {
		r = conn
	}
	return &Conn{conn: conn, rw: readWriter{Reader: r, Writer: conn}, state: ws.StateServerSide}
}

// ReadLine implements transport.Conn.
// Reads the next text frame; control frames are handled by wsutil.
func (c *Conn) ReadLine() (string, error) {
	if len(c.pending) > 0 {
		line := c.pending[0]
		c.pending = c.pending[1:]
		return line, nil
	}

	data, err := c.readText()
	if err != nil {
		return "", err
	}
	if len(data) > transport.MaxLineLength {
		return "", transport.ErrLineTooLong
	}

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	c.pending = lines[1:]
	return lines[0], nil
}

// readText returns the payload of the next text frame, answering control
// frames under the write lock and discarding binary ones.
func (c *Conn) readText() ([]byte, error) {
	control := wsutil.ControlFrameHandler(c.conn, c.state)
	handle := func(hdr ws.Header, r io.Reader) error {
		c.wmu.Lock()
		defer c.wmu.Unlock()
		return control(hdr, r)
	}

	rd := &wsutil.Reader{
		Source:         c.rw,
		State:          c.state,
		CheckUTF8:      true,
		OnIntermediate: handle,
	}
	for {
		hdr, err := rd.NextFrame()
		if err != nil {
			return nil, err
		}
		if hdr.OpCode.IsControl() {
			if err := handle(hdr, rd); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.OpCode != ws.OpText {
			if err := rd.Discard(); err != nil {
				return nil, err
			}
			continue
		}
		return io.ReadAll(io.LimitReader(rd, transport.MaxLineLength+1))
	}
}

// WriteLine implements transport.Conn.
func (c *Conn) WriteLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.state.ClientSide() {
		return wsutil.WriteClientText(c.conn, []byte(line))
	}
	return wsutil.WriteServerText(c.conn, []byte(line))
}

// Close implements transport.Conn.
// The close frame is best effort and skipped while a write is in flight.
func (c *Conn) Close() error {
	if c.wmu.TryLock() {
		_ = c.conn.SetWriteDeadline(time.Now().Add(closeFrameTimeout))
		body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
		if c.state.ClientSide() {
			_ = wsutil.WriteClientMessage(c.conn, ws.OpClose, body)
		} else {
			_ = wsutil.WriteServerMessage(c.conn, ws.OpClose, body)
		}
		c.wmu.Unlock()
	}
	return c.conn.Close()
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
