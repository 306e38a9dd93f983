package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is wrapped by every DecodeError.
var ErrMalformed = errors.New("malformed line")

// DecodeError describes a server line that names a known response word but
// does not carry the fields that word requires.
type DecodeError struct {
	Word   string
	Line   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s: %q", e.Word, e.Reason, e.Line)
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformed
}

// Decode parses one server line. It returns a nil Event and a nil error for
// lines whose command word is not recognized.
func Decode(line string) (Event, error) {
	line = strings.TrimRight(line, "\r\n")
	word, rest, _ := strings.Cut(line, " ")

	switch word {
	case RespLoginOK:
		return LoginResult{Success: true}, nil
	case RespLoginErr:
		return LoginResult{Success: false, Reason: rest}, nil
	case RespUsers:
		return UserList{Usernames: tokens(rest)}, nil
	case RespMsg:
		return decodeMessage(word, line, false)
	case RespPrivMsg:
		return decodeMessage(word, line, true)
	case RespMsgErr:
		return MessageError{Reason: line}, nil
	case RespCmdErr:
		return CommandError{Reason: line}, nil
	case RespSupported:
		return SupportedCommands{Words: tokens(rest)}, nil
	default:
		return nil, nil
	}
}

func decodeMessage(word, line string, private bool) (Event, error) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return nil, &DecodeError{Word: word, Line: line, Reason: "missing sender or text"}
	}
	if fields[1] == "" {
		return nil, &DecodeError{Word: word, Line: line, Reason: "empty sender"}
	}
	return TextMessage{Sender: fields[1], Private: private, Text: fields[2]}, nil
}

// tokens splits on runs of spaces and never returns nil.
func tokens(s string) []string {
	f := strings.Fields(s)
	if f == nil {
		return []string{}
	}
	return f
}
