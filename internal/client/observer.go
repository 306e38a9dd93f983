package client

import "github.com/omochice/toy-line-chat/pkg/protocol"

// Observer receives the events decoded from the server. Handlers run on the
// client's dispatch goroutine, one event at a time, in registration order;
// a slow handler delays every later event.
type Observer interface {
	OnLoginResult(success bool, message string)
	OnDisconnect()
	OnUserList(usernames []string)
	OnMessageReceived(msg protocol.TextMessage)
	OnMessageError(reason string)
	OnCommandError(reason string)
	OnSupportedCommands(words []string)
}

// BaseObserver implements Observer with no-op handlers. Embed it to handle
// only some events.
type BaseObserver struct{}

func (BaseObserver) OnLoginResult(bool, string)             {}
func (BaseObserver) OnDisconnect()                          {}
func (BaseObserver) OnUserList([]string)                    {}
func (BaseObserver) OnMessageReceived(protocol.TextMessage) {}
func (BaseObserver) OnMessageError(string)                  {}
func (BaseObserver) OnCommandError(string)                  {}
func (BaseObserver) OnSupportedCommands([]string)           {}

var _ Observer = BaseObserver{}
