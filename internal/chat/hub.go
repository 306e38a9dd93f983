// Package chat implements the server side of the line protocol: it tracks
// connected clients and their usernames and answers each command line.
package chat

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/omochice/toy-line-chat/internal/transport"
	"github.com/omochice/toy-line-chat/pkg/protocol"
)

// DefaultOutgoingBuffer is the per-client queue length of lines waiting to be
// written.
const DefaultOutgoingBuffer = 32

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Reasons sent back to clients.
const (
	reasonBadUsername   = "incorrect username format"
	reasonUsernameTaken = "username already in use"
	reasonUnauthorized  = "unauthorized"
	reasonBadRecipient  = "incorrect recipient"
	reasonUnsupported   = "command not supported"
)

// Client represents a connected client with transport-agnostic connection.
type Client struct {
	ID       string
	Conn     transport.Conn
	Outgoing chan string

	// username is guarded by the hub lock; empty until login.
	username string
}

// NewClient creates a client with a DefaultOutgoingBuffer queue.
func NewClient(id string, conn transport.Conn) *Client {
	return &Client{
		ID:       id,
		Conn:     conn,
		Outgoing: make(chan string, DefaultOutgoingBuffer),
	}
}

// Hub manages all connected clients and routes messages between them.
// Both TCP and WebSocket connections share a single Hub instance.
type Hub struct {
	clients map[*Client]bool
	users   map[string]*Client
	mu      sync.RWMutex
	log     zerolog.Logger
}

// NewHub creates a new Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		users:   make(map[string]*Client),
		log:     log,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

// Unregister removes a client and frees its username.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
	if client.username != "" && h.users[client.username] == client {
		delete(h.users, client.username)
	}
}

// ClientCount returns number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Username returns the name client logged in with, or "".
func (h *Hub) Username(client *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client.username
}

// Usernames returns the logged-in users in sorted order.
func (h *Hub) Usernames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.usernamesLocked()
}

func (h *Hub) usernamesLocked() []string {
	names := make([]string, 0, len(h.users))
	for name := range h.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle processes one command line received from client and queues the
// replies.
func (h *Hub) Handle(client *Client, line string) {
	word, rest, _ := strings.Cut(strings.TrimRight(line, "\r\n"), " ")

	switch word {
	case protocol.CmdLogin:
		h.login(client, rest)
	case protocol.CmdMsg:
		h.public(client, rest)
	case protocol.CmdPrivMsg:
		recipient, text, _ := strings.Cut(rest, " ")
		h.private(client, recipient, text)
	case protocol.CmdUsers:
		h.mu.RLock()
		names := h.usernamesLocked()
		h.mu.RUnlock()
		h.reply(client, protocol.RespUsers, names...)
	case protocol.CmdHelp:
		h.reply(client, protocol.RespSupported,
			protocol.CmdLogin, protocol.CmdMsg, protocol.CmdPrivMsg, protocol.CmdUsers, protocol.CmdHelp)
	default:
		h.log.Debug().Str("client", client.ID).Str("command", word).Msg("unsupported command")
		h.reply(client, protocol.RespCmdErr, reasonUnsupported)
	}
}

func (h *Hub) login(client *Client, name string) {
	if !usernamePattern.MatchString(name) {
		h.reply(client, protocol.RespLoginErr, reasonBadUsername)
		return
	}

	h.mu.Lock()
	if owner, ok := h.users[name]; ok && owner != client {
		h.mu.Unlock()
		h.reply(client, protocol.RespLoginErr, reasonUsernameTaken)
		return
	}
	if client.username != "" {
		delete(h.users, client.username)
	}
	client.username = name
	h.users[name] = client
	h.mu.Unlock()

	h.log.Info().Str("client", client.ID).Str("username", name).Msg("user logged in")
	h.reply(client, protocol.RespLoginOK)
}

func (h *Hub) public(client *Client, text string) {
	h.mu.RLock()
	sender := client.username
	if sender == "" {
		h.mu.RUnlock()
		h.reply(client, protocol.RespMsgErr, reasonUnauthorized)
		return
	}

	line := joinLine(protocol.RespMsg, sender, text)
	delivered := 0
	for other := range h.clients {
		if other == client || other.username == "" {
			continue
		}
		if h.enqueue(other, line) {
			delivered++
		}
	}
	h.mu.RUnlock()

	h.reply(client, protocol.RespMsgOK, strconv.Itoa(delivered))
}

func (h *Hub) private(client *Client, recipient, text string) {
	h.mu.RLock()
	sender := client.username
	if sender == "" {
		h.mu.RUnlock()
		h.reply(client, protocol.RespMsgErr, reasonUnauthorized)
		return
	}
	target, ok := h.users[recipient]
	if !ok {
		h.mu.RUnlock()
		h.reply(client, protocol.RespMsgErr, reasonBadRecipient, recipient)
		return
	}
	h.enqueue(target, joinLine(protocol.RespPrivMsg, sender, text))
	h.mu.RUnlock()

	h.reply(client, protocol.RespMsgOK, "1")
}

// reply queues a response line built from word and args for client.
func (h *Hub) reply(client *Client, word string, args ...string) {
	h.enqueue(client, joinLine(word, args...))
}

// enqueue never blocks; a client whose queue is full misses the line.
func (h *Hub) enqueue(client *Client, line string) bool {
	select {
	case client.Outgoing <- line:
		return true
	default:
		h.log.Warn().Str("client", client.ID).Msg("client queue full, dropping line")
		return false
	}
}

func joinLine(word string, args ...string) string {
	if len(args) == 0 {
		return word
	}
	return word + " " + strings.Join(args, " ")
}
