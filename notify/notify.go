package notify

import (
	"sync"

	"github.com/mkarev/shclient/network"
)

type ErrorCategory int

const (
	// CategoryTransport errors are recoverable; the reconnect policy owns
	// them and the user only sees a transient indicator.
	CategoryTransport ErrorCategory = iota
	// CategoryProtocol errors discard the offending frame; the connection
	// stays open.
	CategoryProtocol
	// CategoryGameRule errors carry the server's refusal reason verbatim.
	CategoryGameRule
	// CategoryIdentity errors are terminal for the session; the consumer
	// must return to the join flow.
	CategoryIdentity
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryTransport:
		return "transport"
	case CategoryProtocol:
		return "protocol"
	case CategoryGameRule:
		return "game_rule"
	case CategoryIdentity:
		return "identity"
	default:
		return "unknown"
	}
}

type Event interface{ isEvent() }

// ErrorEvent is the single error delivery path out of the core. Errors are
// published, never thrown: they surface inside asynchronous event handling
// with no caller to catch them.
type ErrorEvent struct {
	Category ErrorCategory
	Reason   string
	Err      error
}

// ConnStateEvent reports connection lifecycle changes.
type ConnStateEvent struct {
	State network.ConnState
}

func (ErrorEvent) isEvent()     {}
func (ConnStateEvent) isEvent() {}

// Notifier fans events out to any number of observers. The core holds no
// references to whatever UI the observers drive.
type Notifier struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Subscribe(fn func(Event)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

func (n *Notifier) Publish(event Event) {
	n.mu.RLock()
	subs := make([]func(Event), len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}
}

func (n *Notifier) Error(category ErrorCategory, reason string, err error) {
	n.Publish(ErrorEvent{Category: category, Reason: reason, Err: err})
}
