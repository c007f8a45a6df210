package network

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mkarev/shclient/logger"
)

type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateErrored
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateErrored:
		return "errored"
	default:
		return "disconnected"
	}
}

const DefaultReconnectInterval = 2000 * time.Millisecond

// Manager owns one duplex socket to a fixed endpoint. Drops are expected:
// unless Close has been called it retries forever at a fixed interval, with
// at most one reconnect timer pending at a time.
type Manager struct {
	endpoint string
	dial     Dialer
	interval time.Duration

	onFrame func([]byte)
	onState func(ConnState)

	mu        sync.Mutex
	sendMu    sync.Mutex
	state     ConnState
	transport Transport
	retry     *time.Timer
	closed    bool
	lastErr   error
}

type Option func(*Manager)

func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dial = d }
}

func WithReconnectInterval(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

// WithFrameHandler registers the inbound frame callback. Frames are delivered
// in arrival order from a single reader.
func WithFrameHandler(fn func([]byte)) Option {
	return func(m *Manager) { m.onFrame = fn }
}

// WithStateHandler registers the connection-state callback. It is invoked
// outside the manager's lock, in transition order for any one connection.
func WithStateHandler(fn func(ConnState)) Option {
	return func(m *Manager) { m.onState = fn }
}

func NewManager(endpoint string, opts ...Option) *Manager {
	m := &Manager{
		endpoint: endpoint,
		dial:     DialWebSocket,
		interval: DefaultReconnectInterval,
		state:    StateDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Endpoint() string { return m.endpoint }

func (m *Manager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError returns the most recent transport error, cleared on a successful
// connect.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Open starts the connect loop. It returns immediately; progress is reported
// through the state handler.
func (m *Manager) Open() {
	m.mu.Lock()
	if m.closed || m.state == StateConnecting || m.state == StateConnected {
		m.mu.Unlock()
		return
	}
	notify := m.setStateLocked(StateConnecting)
	m.mu.Unlock()
	notify()

	go m.connect()
}

// Send transmits one text frame. Fire-and-forget: when the manager is not
// connected the frame is silently dropped, never queued.
func (m *Manager) Send(data []byte) {
	m.mu.Lock()
	t := m.transport
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || t == nil {
		logger.Log.Debugw("dropping frame, not connected", "endpoint", m.endpoint)
		return
	}

	m.sendMu.Lock()
	err := t.WriteMessage(websocket.TextMessage, data)
	m.sendMu.Unlock()
	if err != nil {
		// The read loop observes the same failure and drives reconnection.
		logger.Log.Warnw("write failed", "endpoint", m.endpoint, "error", err)
	}
}

// Close tears the connection down: cancels any pending reconnect timer,
// closes the transport and suppresses all further callbacks, in that order.
// No reconnect attempt can fire after Close returns.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	t := m.transport
	m.transport = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	if t != nil {
		t.Close()
	}
}

func (m *Manager) connect() {
	t, err := m.dial(m.endpoint)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		if t != nil {
			t.Close()
		}
		return
	}
	if err != nil {
		m.lastErr = err
		notify := m.setStateLocked(StateErrored)
		m.scheduleReconnectLocked()
		m.mu.Unlock()
		notify()
		logger.Log.Warnw("dial failed", "endpoint", m.endpoint, "error", err)
		return
	}
	m.transport = t
	m.lastErr = nil
	notify := m.setStateLocked(StateConnected)
	m.mu.Unlock()
	notify()

	logger.Log.Infow("connected", "endpoint", m.endpoint)
	m.readLoop(t)
}

func (m *Manager) readLoop(t Transport) {
	for {
		msgType, data, err := t.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		m.mu.Lock()
		closed := m.closed
		fn := m.onFrame
		m.mu.Unlock()
		if closed {
			return
		}
		if fn != nil {
			fn(data)
		}
	}

	t.Close()

	m.mu.Lock()
	if m.closed || m.transport != t {
		m.mu.Unlock()
		return
	}
	m.transport = nil
	notify := m.setStateLocked(StateDisconnected)
	m.scheduleReconnectLocked()
	m.mu.Unlock()
	notify()
}

// scheduleReconnectLocked arms the retry timer unless one is already pending
// or teardown has begun. Callers hold m.mu.
func (m *Manager) scheduleReconnectLocked() {
	if m.closed || m.retry != nil {
		return
	}
	m.retry = time.AfterFunc(m.interval, func() {
		m.mu.Lock()
		m.retry = nil
		if m.closed || m.state == StateConnected || m.state == StateConnecting {
			m.mu.Unlock()
			return
		}
		notify := m.setStateLocked(StateConnecting)
		m.mu.Unlock()
		notify()

		logger.Log.Infow("reconnecting", "endpoint", m.endpoint)
		m.connect()
	})
}

// setStateLocked transitions the state and returns the notification to run
// once the lock is released. Callers hold m.mu.
func (m *Manager) setStateLocked(s ConnState) func() {
	if m.state == s {
		return func() {}
	}
	m.state = s
	if m.onState == nil || m.closed {
		return func() {}
	}
	fn := m.onState
	return func() { fn(s) }
}
