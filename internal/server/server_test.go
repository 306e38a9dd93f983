package server_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omochice/toy-line-chat/internal/server"
	"github.com/omochice/toy-line-chat/internal/transport"
	"github.com/omochice/toy-line-chat/internal/transport/tcp"
	"github.com/omochice/toy-line-chat/internal/transport/ws"
)

const waitTimeout = 2 * time.Second

func startServer(t *testing.T, opts ...server.Option) (*server.Server, int) {
	t.Helper()

	srv := server.New("127.0.0.1:0", zerolog.Nop(), opts...)
	require.NoError(t, srv.Listen())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()

	t.Cleanup(func() {
		srv.Stop()
		select {
		case err := <-errChan:
			assert.ErrorIs(t, err, server.ErrServerClosed)
		case <-time.After(waitTimeout):
			t.Error("server did not stop in time")
		}
	})

	_, portStr, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return srv, port
}

func dial(t *testing.T, d transport.Dialer, port int) transport.Conn {
	t.Helper()

	conn, err := d.Dial(context.Background(), "127.0.0.1", port)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readLine(t *testing.T, conn transport.Conn) string {
	t.Helper()

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := conn.ReadLine()
		ch <- result{line, err}
	}()

	select {
	case r := <-ch:
		require.NoError(t, r.err)
		return r.line
	case <-time.After(waitTimeout):
		t.Fatal("no line received")
		return ""
	}
}

func roundTrip(t *testing.T, conn transport.Conn, line string) string {
	t.Helper()
	require.NoError(t, conn.WriteLine(line))
	return readLine(t, conn)
}

func TestServer_StartStop(t *testing.T) {
	srv := server.New("127.0.0.1:0", zerolog.Nop())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	require.Eventually(t, func() bool { return srv.Addr() != "" }, waitTimeout, 10*time.Millisecond)

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	_ = conn.Close()

	srv.Stop()

	select {
	case err := <-errChan:
		assert.ErrorIs(t, err, server.ErrServerClosed)
	case <-time.After(waitTimeout):
		t.Fatal("server did not stop in time")
	}
}

func TestServer_ListenError(t *testing.T) {
	srv := server.New("127.0.0.1:-1", zerolog.Nop())
	assert.Error(t, srv.Listen())
}

func TestServer_TCPClient(t *testing.T) {
	srv, port := startServer(t)
	conn := dial(t, tcp.Dialer{Timeout: time.Second}, port)

	assert.Equal(t, "loginok", roundTrip(t, conn, "login alice"))
	assert.Equal(t, 1, srv.ClientCount())
	assert.Equal(t, "users alice", roundTrip(t, conn, "users"))
	assert.Equal(t, "supported login msg privmsg users help", roundTrip(t, conn, "help"))
	assert.Equal(t, "cmderr command not supported", roundTrip(t, conn, "dance"))
}

func TestServer_WebSocketClient(t *testing.T) {
	srv, port := startServer(t)
	conn := dial(t, ws.Dialer{Timeout: time.Second}, port)

	assert.Equal(t, "loginok", roundTrip(t, conn, "login bob"))
	assert.Equal(t, 1, srv.ClientCount())
	assert.Equal(t, "msgerr incorrect recipient zed", roundTrip(t, conn, "privmsg zed hi"))
}

func TestServer_CrossProtocolMessages(t *testing.T) {
	_, port := startServer(t)
	alice := dial(t, tcp.Dialer{Timeout: time.Second}, port)
	bob := dial(t, ws.Dialer{Timeout: time.Second}, port)

	require.Equal(t, "loginok", roundTrip(t, alice, "login alice"))
	require.Equal(t, "loginok", roundTrip(t, bob, "login bob"))

	assert.Equal(t, "msgok 1", roundTrip(t, alice, "msg hello from tcp"))
	assert.Equal(t, "msg alice hello from tcp", readLine(t, bob))

	assert.Equal(t, "msgok 1", roundTrip(t, bob, "privmsg alice psst"))
	assert.Equal(t, "privmsg bob psst", readLine(t, alice))
}

func TestServer_DisconnectFreesUsername(t *testing.T) {
	srv, port := startServer(t)
	first := dial(t, tcp.Dialer{Timeout: time.Second}, port)
	require.Equal(t, "loginok", roundTrip(t, first, "login alice"))

	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return srv.ClientCount() == 0 }, waitTimeout, 10*time.Millisecond)

	second := dial(t, tcp.Dialer{Timeout: time.Second}, port)
	assert.Equal(t, "loginok", roundTrip(t, second, "login alice"))
}

func TestServer_StopClosesClients(t *testing.T) {
	srv := server.New("127.0.0.1:0", zerolog.Nop())
	require.NoError(t, srv.Listen())
	go func() { _ = srv.Serve() }()

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("login alice\n"))
	require.NoError(t, err)
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "loginok", strings.TrimSpace(line))

	srv.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitTimeout)))
	_, err = reader.ReadString('\n')
	assert.Error(t, err)
	assert.Zero(t, srv.ClientCount())
}

func TestServer_SilentClientKeptByDefault(t *testing.T) {
	srv, port := startServer(t)
	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer conn.Close()

	// Still open after a quiet spell: the read times out instead of seeing EOF.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, err = conn.Read(make([]byte, 1))
	var ne net.Error
	require.True(t, errors.As(err, &ne) && ne.Timeout(), "got %v", err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitTimeout)))
	_, err = conn.Write([]byte("login alice\n"))
	require.NoError(t, err)
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "loginok", strings.TrimSpace(line))
	assert.Equal(t, 1, srv.ClientCount())
}

func TestServer_DetectTimeoutDropsSilentClient(t *testing.T) {
	srv, port := startServer(t, server.WithDetectTimeout(100*time.Millisecond))
	conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitTimeout)))
	_, err = conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, srv.ClientCount())
}

func TestServer_DetectTimeoutOnlyBeforeFirstLine(t *testing.T) {
	_, port := startServer(t, server.WithDetectTimeout(100*time.Millisecond))
	conn := dial(t, tcp.Dialer{Timeout: time.Second}, port)

	require.Equal(t, "loginok", roundTrip(t, conn, "login alice"))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, "users alice", roundTrip(t, conn, "users"))
}
