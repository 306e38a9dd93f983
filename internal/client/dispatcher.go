package client

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/omochice/toy-line-chat/pkg/protocol"
)

// dispatcher keeps the ordered observer registry and fans events out to it.
type dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	log       zerolog.Logger
}

func newDispatcher(log zerolog.Logger) *dispatcher {
	return &dispatcher{log: log}
}

// add registers o unless it is already present. It reports whether o was added.
func (d *dispatcher) add(o Observer) bool {
	if o == nil {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.observers {
		if sameObserver(existing, o) {
			return false
		}
	}
	d.observers = append(d.observers, o)
	return true
}

// remove unregisters o. It reports whether o was registered.
func (d *dispatcher) remove(o Observer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, existing := range d.observers {
		if sameObserver(existing, o) {
			d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
			return true
		}
	}
	return false
}

func (d *dispatcher) count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// snapshot copies the registry so that handlers may register or unregister
// observers without affecting the event being delivered.
func (d *dispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Observer(nil), d.observers...)
}

// dispatch delivers ev to every observer on the calling goroutine.
func (d *dispatcher) dispatch(ev protocol.Event) {
	for _, o := range d.snapshot() {
		d.invoke(ev.Type().String(), func() { deliver(o, ev) })
	}
}

// disconnected delivers OnDisconnect to every observer.
func (d *dispatcher) disconnected() {
	for _, o := range d.snapshot() {
		d.invoke("DISCONNECT", o.OnDisconnect)
	}
}

// invoke runs one handler; a panicking observer is logged and skipped.
func (d *dispatcher) invoke(event string, handler func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("event", event).Msg("observer panicked")
		}
	}()
	handler()
}

func deliver(o Observer, ev protocol.Event) {
	switch e := ev.(type) {
	case protocol.LoginResult:
		o.OnLoginResult(e.Success, e.Message)
	case protocol.UserList:
		o.OnUserList(e.Usernames)
	case protocol.TextMessage:
		o.OnMessageReceived(e)
	case protocol.MessageError:
		o.OnMessageError(e.Reason)
	case protocol.CommandError:
		o.OnCommandError(e.Reason)
	case protocol.SupportedCommands:
		o.OnSupportedCommands(e.Words)
	}
}

// sameObserver compares observers by identity. Values of non-comparable
// dynamic types are never considered equal. A comparable struct may still
// hold a slice, map or func in an interface field, which makes == panic at
// run time; such values are treated as distinct too.
func sameObserver(a, b Observer) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
