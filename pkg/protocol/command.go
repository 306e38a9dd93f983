package protocol

import (
	"errors"
	"strings"
)

// Client command words.
const (
	CmdLogin   = "login"
	CmdMsg     = "msg"
	CmdPrivMsg = "privmsg"
	CmdUsers   = "users"
	CmdHelp    = "help"
)

// Server response words.
const (
	RespLoginOK   = "loginok"
	RespLoginErr  = "loginerr"
	RespUsers     = "users"
	RespMsg       = "msg"
	RespPrivMsg   = "privmsg"
	RespMsgOK     = "msgok"
	RespMsgErr    = "msgerr"
	RespCmdErr    = "cmderr"
	RespSupported = "supported"
)

// ErrMultiline is returned when a command word or argument contains a line break.
var ErrMultiline = errors.New("line break in command")

// Command is an outgoing protocol command. The last argument is free text and
// may contain spaces; all others must be single tokens.
type Command struct {
	Word string
	Args []string
}

// NewCommand builds a command from a word and its arguments.
func NewCommand(word string, args ...string) Command {
	return Command{Word: word, Args: append([]string(nil), args...)}
}

// Encode serializes the command into a single protocol line without the
// terminator.
func (c Command) Encode() (string, error) {
	return Encode(c.Word, c.Args...)
}

// Encode joins the command word and its arguments with single spaces.
func Encode(word string, args ...string) (string, error) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, word)
	parts = append(parts, args...)
	for _, p := range parts {
		if strings.ContainsAny(p, "\r\n") {
			return "", ErrMultiline
		}
	}
	return strings.Join(parts, " "), nil
}

// Login builds the login command.
func Login(username string) Command { return NewCommand(CmdLogin, username) }

// Public builds a message to all users.
func Public(text string) Command { return NewCommand(CmdMsg, text) }

// Private builds a message to a single recipient.
func Private(recipient, text string) Command { return NewCommand(CmdPrivMsg, recipient, text) }

// Users builds the user list request.
func Users() Command { return NewCommand(CmdUsers) }

// Help builds the supported commands request.
func Help() Command { return NewCommand(CmdHelp) }
