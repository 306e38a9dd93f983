package tcp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/omochice/toy-line-chat/internal/transport"
)

// DefaultTimeout bounds the TCP handshake when Dialer.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Dialer opens raw TCP line connections.
type Dialer struct {
	Timeout time.Duration
}

// Dial implements transport.Dialer.
func (d Dialer) Dial(ctx context.Context, host string, port int) (transport.Conn, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	nd := net.Dialer{Timeout: timeout}
	conn, err := nd.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	return NewConn(conn), nil
}
