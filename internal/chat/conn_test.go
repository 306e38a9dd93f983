package chat_test

import (
	"io"
	"sync"

	"github.com/omochice/toy-line-chat/internal/transport"
)

// mockConn is a mock implementation of transport.Conn for testing.
type mockConn struct {
	readCh     chan string
	writtenMu  sync.Mutex
	written    []string
	closed     bool
	remoteAddr string
}

func newMockConn(addr string) *mockConn {
	return &mockConn{
		readCh:     make(chan string, 10),
		remoteAddr: addr,
	}
}

func (m *mockConn) ReadLine() (string, error) {
	line, ok := <-m.readCh
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (m *mockConn) WriteLine(line string) error {
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	m.written = append(m.written, line)
	return nil
}

func (m *mockConn) Close() error {
	m.closed = true
	return nil
}

func (m *mockConn) RemoteAddr() string {
	return m.remoteAddr
}

// Compile-time check that mockConn implements transport.Conn
var _ transport.Conn = (*mockConn)(nil)
