// Package protocol implements the line-based chat wire format: encoding of
// client commands and decoding of server responses into typed events.
package protocol

// EventType identifies the kind of event decoded from a server line.
type EventType int

const (
	EventTypeLoginResult EventType = iota
	EventTypeUserList
	EventTypeChatMessage
	EventTypeMessageError
	EventTypeCommandError
	EventTypeSupportedCommands
)

// String returns the string representation of EventType
func (et EventType) String() string {
	switch et {
	case EventTypeLoginResult:
		return "LOGIN_RESULT"
	case EventTypeUserList:
		return "USER_LIST"
	case EventTypeChatMessage:
		return "CHAT_MESSAGE"
	case EventTypeMessageError:
		return "MESSAGE_ERROR"
	case EventTypeCommandError:
		return "COMMAND_ERROR"
	case EventTypeSupportedCommands:
		return "SUPPORTED_COMMANDS"
	default:
		return "UNKNOWN"
	}
}

// Event is a decoded server response. The set of implementations is closed.
type Event interface {
	Type() EventType
}

// TextMessage is a chat message received from another user.
type TextMessage struct {
	Sender  string
	Private bool
	Text    string
}

// ChatMessage is the event carrying a TextMessage.
type ChatMessage = TextMessage

// LoginResult reports the outcome of a login command. On failure the client
// sets Message to its last recorded error; Reason keeps whatever text the
// server put after the response word.
type LoginResult struct {
	Success bool
	Message string
	Reason  string
}

// UserList carries the names of the users currently logged in.
type UserList struct {
	Usernames []string
}

// MessageError reports that a chat message could not be delivered.
type MessageError struct {
	Reason string
}

// CommandError reports that the server did not understand a command.
type CommandError struct {
	Reason string
}

// SupportedCommands lists the command words the server accepts.
type SupportedCommands struct {
	Words []string
}

func (TextMessage) Type() EventType       { return EventTypeChatMessage }
func (LoginResult) Type() EventType       { return EventTypeLoginResult }
func (UserList) Type() EventType          { return EventTypeUserList }
func (MessageError) Type() EventType      { return EventTypeMessageError }
func (CommandError) Type() EventType      { return EventTypeCommandError }
func (SupportedCommands) Type() EventType { return EventTypeSupportedCommands }
