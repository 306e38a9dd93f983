package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/omochice/toy-line-chat/internal/client"
	"github.com/omochice/toy-line-chat/pkg/protocol"
)

// console prints server events for a human.
type console struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *console) OnLoginResult(success bool, message string) {
	if success {
		c.printf("*** logged in")
		return
	}
	if message == "" {
		c.printf("*** login failed")
		return
	}
	c.printf("*** login failed: %s", message)
}

func (c *console) OnDisconnect() {
	c.printf("*** disconnected from server")
}

func (c *console) OnUserList(usernames []string) {
	if len(usernames) == 0 {
		c.printf("*** no users online")
		return
	}
	c.printf("*** users online: %s", strings.Join(usernames, ", "))
}

func (c *console) OnMessageReceived(msg protocol.TextMessage) {
	if msg.Private {
		c.printf("[%s -> you] %s", msg.Sender, msg.Text)
		return
	}
	c.printf("[%s] %s", msg.Sender, msg.Text)
}

func (c *console) OnMessageError(reason string) {
	c.printf("*** message not sent: %s", reason)
}

func (c *console) OnCommandError(reason string) {
	c.printf("*** command rejected: %s", reason)
}

func (c *console) OnSupportedCommands(words []string) {
	c.printf("*** server supports: %s", strings.Join(words, " "))
	c.printf("*** console: /login <name>, /users, /help, /privmsg <to> <text> (/w), /quit")
}

var _ client.Observer = (*console)(nil)
