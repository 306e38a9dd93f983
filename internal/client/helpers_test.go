package client_test

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omochice/toy-line-chat/internal/client"
	"github.com/omochice/toy-line-chat/internal/transport"
	"github.com/omochice/toy-line-chat/pkg/protocol"
)

const waitTimeout = 2 * time.Second

// fakeServer is a bare TCP listener the tests drive line by line.
type fakeServer struct {
	listener net.Listener
	conns    chan net.Conn
}

func startFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeServer{listener: listener, conns: make(chan net.Conn, 4)}
	go func() {
		for {
			c, err := listener.Accept()
			if err != nil {
				close(s.conns)
				return
			}
			s.conns <- c
		}
	}()
	t.Cleanup(func() { _ = listener.Close() })
	return s
}

func (s *fakeServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeServer) accept(t *testing.T) *peer {
	t.Helper()

	select {
	case c, ok := <-s.conns:
		require.True(t, ok, "listener closed")
		t.Cleanup(func() { _ = c.Close() })
		return &peer{conn: c, reader: bufio.NewReader(c)}
	case <-time.After(waitTimeout):
		t.Fatal("no connection accepted")
		return nil
	}
}

// peer is the server side of one accepted connection.
type peer struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (p *peer) send(t *testing.T, lines ...string) {
	t.Helper()
	for _, l := range lines {
		_, err := io.WriteString(p.conn, l+"\n")
		require.NoError(t, err)
	}
}

func (p *peer) readLine(t *testing.T) string {
	t.Helper()
	require.NoError(t, p.conn.SetReadDeadline(time.Now().Add(waitTimeout)))
	line, err := p.reader.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimRight(line, "\r\n")
}

func connect(t *testing.T, c *client.Client, port int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	require.NoError(t, c.Connect(ctx, "127.0.0.1", port))
	t.Cleanup(c.Disconnect)
}

func waitDone(t *testing.T, c *client.Client) {
	t.Helper()

	select {
	case <-c.Done():
	case <-time.After(waitTimeout):
		t.Fatal("connection did not finish")
	}
}

// recorder turns every notification into a short string.
type recorder struct {
	client.BaseObserver

	mu          sync.Mutex
	disconnects int
	events      chan string
}

func newRecorder() *recorder {
	return &recorder{events: make(chan string, 64)}
}

func (r *recorder) OnLoginResult(success bool, message string) {
	r.events <- fmt.Sprintf("login %t %s", success, message)
}

func (r *recorder) OnDisconnect() {
	r.mu.Lock()
	r.disconnects++
	r.mu.Unlock()
	r.events <- "disconnect"
}

func (r *recorder) OnUserList(usernames []string) {
	r.events <- "users " + strings.Join(usernames, ",")
}

func (r *recorder) OnMessageReceived(msg protocol.TextMessage) {
	r.events <- fmt.Sprintf("message %t %s %s", msg.Private, msg.Sender, msg.Text)
}

func (r *recorder) OnMessageError(reason string) {
	r.events <- "msgerr " + reason
}

func (r *recorder) OnCommandError(reason string) {
	r.events <- "cmderr " + reason
}

func (r *recorder) OnSupportedCommands(words []string) {
	r.events <- "supported " + strings.Join(words, ",")
}

func (r *recorder) next(t *testing.T) string {
	t.Helper()

	select {
	case ev := <-r.events:
		return ev
	case <-time.After(waitTimeout):
		t.Fatal("no event received")
		return ""
	}
}

func (r *recorder) disconnectCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disconnects
}

// fakeConn is a scripted transport.Conn.
type fakeConn struct {
	lines    chan string
	closed   chan struct{}
	once     sync.Once
	writeErr error

	// beforeWrite runs at the start of every WriteLine.
	beforeWrite func()

	mu      sync.Mutex
	written []string
}

func newFakeConn() *fakeConn {
	return &fakeConn{lines: make(chan string, 16), closed: make(chan struct{})}
}

func (f *fakeConn) ReadLine() (string, error) {
	select {
	case l := <-f.lines:
		return l, nil
	case <-f.closed:
		return "", io.EOF
	}
}

func (f *fakeConn) WriteLine(line string) error {
	if f.beforeWrite != nil {
		f.beforeWrite()
	}
	select {
	case <-f.closed:
		return &net.OpError{Op: "write", Net: "tcp", Err: net.ErrClosed}
	default:
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, line)
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) RemoteAddr() string {
	return "fake"
}

func (f *fakeConn) Written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.written...)
}

type fakeDialer struct {
	conn  *fakeConn
	err   error
	dials int
}

func (d *fakeDialer) Dial(context.Context, string, int) (transport.Conn, error) {
	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

var _ transport.Conn = (*fakeConn)(nil)
