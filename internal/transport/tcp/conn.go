// Package tcp provides the raw TCP line transport.
package tcp

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/omochice/toy-line-chat/internal/transport"
)

// Conn adapts net.Conn to transport.Conn, one protocol line per
// newline-terminated chunk of the stream.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader

	wmu    sync.Mutex
	writer *bufio.Writer
}

// NewConn wraps a net.Conn.
func NewConn(conn net.Conn) *Conn {
	return NewConnWithReader(conn, bufio.NewReader(conn))
}

// NewConnWithReader wraps a net.Conn whose first bytes were already buffered
// by reader, e.g. after peeking for protocol detection.
func NewConnWithReader(conn net.Conn, reader *bufio.Reader) *Conn {
	return &Conn{
		conn:   conn,
		reader: reader,
		writer: bufio.NewWriter(conn),
	}
}

// ReadLine implements transport.Conn.
// A final unterminated line before EOF is returned as a line.
func (c *Conn) ReadLine() (string, error) {
	var buf []byte
	for {
		chunk, err := c.reader.ReadSlice('\n')
		buf = append(buf, chunk...)
		if len(buf) > transport.MaxLineLength+2 {
			return "", transport.ErrLineTooLong
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(buf) > 0:
			return trimEOL(buf), nil
		case err != nil:
			return "", err
		}
		return trimEOL(buf), nil
	}
}

// WriteLine implements transport.Conn.
func (c *Conn) WriteLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if _, err := c.writer.WriteString(line); err != nil {
		return err
	}
	if err := c.writer.WriteByte('\n'); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close implements transport.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func trimEOL(b []byte) string {
	return strings.TrimRight(string(b), "\r\n")
}
