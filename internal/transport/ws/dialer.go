package ws

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/gobwas/ws"

	"github.com/omochice/toy-line-chat/internal/transport"
)

// DefaultPath is the endpoint the reference server upgrades on.
const DefaultPath = "/ws"

// Dialer opens WebSocket line connections.
type Dialer struct {
	Timeout time.Duration
	Path    string
}

// Dial implements transport.Dialer.
func (d Dialer) Dial(ctx context.Context, host string, port int) (transport.Conn, error) {
	path := d.Path
	if path == "" {
		path = DefaultPath
	}
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   path,
	}

	dialer := ws.Dialer{Timeout: d.Timeout}
	conn, br, _, err := dialer.Dial(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	return NewClientConn(conn, br), nil
}
