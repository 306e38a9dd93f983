package ws

import (
	"bufio"
	"fmt"
	"net"

	"github.com/gobwas/ws"
)

// Upgrade performs the server side of the WebSocket handshake on a
// connection whose request bytes may already sit in reader.
func Upgrade(conn net.Conn, reader *bufio.Reader) (*Conn, error) {
	if reader == nil {
		reader = bufio.NewReader(conn)
	}
	if _, err := ws.Upgrade(readWriter{Reader: reader, Writer: conn}); err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	return NewServerConn(conn, reader), nil
}
