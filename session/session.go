package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkarev/shclient/chat"
	"github.com/mkarev/shclient/eligibility"
	"github.com/mkarev/shclient/logger"
	"github.com/mkarev/shclient/models"
	"github.com/mkarev/shclient/network"
	"github.com/mkarev/shclient/notify"
	"github.com/mkarev/shclient/protocol"
	"github.com/mkarev/shclient/store"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNotEligible   = errors.New("action not currently eligible")
	ErrInvalidTarget = errors.New("target seat not currently selectable")
)

// Recorder receives session metrics. Satisfied by *monitor.Monitor; nil
// disables recording.
type Recorder interface {
	SetConnectionState(network.ConnState)
	IncFramesReceived()
	IncDecodeErrors()
	IncReconnects()
	IncSnapshots()
	IncCommandsSent()
	ObserveDecodeLatency(time.Duration)
}

type Config struct {
	WSBaseURL string
	GameID    string
	PlayerID  string

	ReconnectInterval time.Duration
	Notifier          *notify.Notifier
	Recorder          Recorder
	Dialer            network.Dialer
}

// GameSession wires the connection, the codec, the snapshot store and the
// event sink together for one (game, player) identity.
type GameSession struct {
	ID       string
	GameID   string
	PlayerID string

	conn     *network.Manager
	store    *store.Store
	chatLog  *chat.Log
	notifier *notify.Notifier
	rec      Recorder

	mu        sync.Mutex
	closed    bool
	connected bool // a connect succeeded at least once
}

func New(cfg Config) (*GameSession, error) {
	endpoint, err := network.Endpoint(cfg.WSBaseURL, cfg.GameID, cfg.PlayerID)
	if err != nil {
		return nil, err
	}

	s := &GameSession{
		ID:       uuid.New().String(),
		GameID:   cfg.GameID,
		PlayerID: cfg.PlayerID,
		store:    store.New(),
		chatLog:  chat.NewLog(),
		notifier: cfg.Notifier,
		rec:      cfg.Recorder,
	}
	if s.notifier == nil {
		s.notifier = notify.NewNotifier()
	}

	opts := []network.Option{
		network.WithFrameHandler(s.handleFrame),
		network.WithStateHandler(s.handleConnState),
	}
	if cfg.ReconnectInterval > 0 {
		opts = append(opts, network.WithReconnectInterval(cfg.ReconnectInterval))
	}
	if cfg.Dialer != nil {
		opts = append(opts, network.WithDialer(cfg.Dialer))
	}
	s.conn = network.NewManager(endpoint, opts...)

	return s, nil
}

func (s *GameSession) Open() {
	logger.Log.Infow("opening session",
		"session", s.ID, "game", s.GameID, "player", s.PlayerID)
	s.conn.Open()
}

// Close tears the session down: the pending reconnect (if any) is cancelled,
// the transport is closed and the snapshot is discarded. Idempotent.
func (s *GameSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.conn.Close()
	s.store.Reset()
	logger.Log.Infow("session closed", "session", s.ID)
}

func (s *GameSession) Notifier() *notify.Notifier   { return s.notifier }
func (s *GameSession) Store() *store.Store          { return s.store }
func (s *GameSession) Chat() *chat.Log              { return s.chatLog }
func (s *GameSession) ConnState() network.ConnState { return s.conn.State() }
func (s *GameSession) Current() *models.GameState   { return s.store.Current() }

// Eligibility recomputes the action set for the local identity from the
// latest snapshot. No caching: correctness needs none.
func (s *GameSession) Eligibility() (eligibility.Eligibility, error) {
	return eligibility.Compute(s.store.Current(), s.PlayerID)
}

func (s *GameSession) handleConnState(st network.ConnState) {
	if s.rec != nil {
		s.rec.SetConnectionState(st)
	}

	s.mu.Lock()
	switch st {
	case network.StateConnecting:
		if s.connected && s.rec != nil {
			s.rec.IncReconnects()
		}
	case network.StateConnected:
		s.connected = true
	}
	s.mu.Unlock()

	if st == network.StateErrored {
		s.notifier.Error(notify.CategoryTransport, "connection error", s.conn.LastError())
	}
	s.notifier.Publish(notify.ConnStateEvent{State: st})
}

func (s *GameSession) handleFrame(raw []byte) {
	if s.rec != nil {
		s.rec.IncFramesReceived()
	}

	start := time.Now()
	msg, err := protocol.Decode(raw)
	if s.rec != nil {
		s.rec.ObserveDecodeLatency(time.Since(start))
	}
	if err != nil {
		// Frame discarded, snapshot untouched, connection stays open.
		if s.rec != nil {
			s.rec.IncDecodeErrors()
		}
		logger.Log.Warnw("discarding frame", "session", s.ID, "error", err)
		s.notifier.Error(notify.CategoryProtocol, err.Error(), err)
		return
	}

	switch m := msg.(type) {
	case *protocol.GameStateMessage:
		snapshot := m.GameState
		if err := snapshot.Validate(); err != nil {
			if s.rec != nil {
				s.rec.IncDecodeErrors()
			}
			logger.Log.Warnw("discarding inconsistent snapshot", "session", s.ID, "error", err)
			s.notifier.Error(notify.CategoryProtocol, err.Error(), err)
			return
		}
		s.store.Apply(&snapshot)
		s.chatLog.Sync(snapshot.ChatHistory)
		if s.rec != nil {
			s.rec.IncSnapshots()
		}

	case *protocol.ActionErrorMessage:
		// Shown to the user verbatim; nothing to roll back since the
		// client never updates optimistically.
		s.notifier.Error(notify.CategoryGameRule, m.Reason, nil)

	case *protocol.ConnectionErrorMessage:
		if m.Identity() {
			logger.Log.Warnw("identity rejected, abandoning session",
				"session", s.ID, "reason", m.Reason)
			s.notifier.Error(notify.CategoryIdentity, m.Reason, nil)
			go s.Close()
			return
		}
		s.notifier.Error(notify.CategoryTransport, m.Reason, nil)
	}
}

// Send encodes and transmits a command. Fire-and-forget past this point: when
// the socket is down the frame is dropped and the next snapshot tells the
// truth regardless.
func (s *GameSession) Send(msg protocol.ActionMessage) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}

	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	s.conn.Send(data)
	if s.rec != nil {
		s.rec.IncCommandsSent()
	}
	return nil
}

// The convenience senders below run the eligibility engine before a command
// is even constructed, so no illegal command shape leaves the client.

func (s *GameSession) Vote(approve bool) error {
	if err := s.require(models.ActionVote); err != nil {
		return err
	}
	return s.Send(protocol.NewVote(s.PlayerID, approve))
}

func (s *GameSession) Nominate(targetSeat int) error {
	el, err := s.requireEl(models.ActionNominate)
	if err != nil {
		return err
	}
	if !el.CanTarget(targetSeat) {
		return ErrInvalidTarget
	}
	return s.Send(protocol.NewNominate(s.PlayerID, targetSeat))
}

func (s *GameSession) Legislate(cardIndex int) error {
	el, err := s.requireEl(models.ActionLegislate)
	if err != nil {
		return err
	}
	if cardIndex < 0 || cardIndex >= el.CardChoices {
		return ErrInvalidTarget
	}
	return s.Send(protocol.NewLegislate(s.PlayerID, cardIndex))
}

func (s *GameSession) UseExecutivePower(power models.Action, targetSeat int) error {
	el, err := s.requireEl(power)
	if err != nil {
		return err
	}
	if power.Targeted() && !el.CanTarget(targetSeat) {
		return ErrInvalidTarget
	}
	return s.Send(protocol.NewExecutivePower(s.PlayerID, power, targetSeat))
}

func (s *GameSession) StartGame() error {
	if err := s.require(models.ActionStartGame); err != nil {
		return err
	}
	return s.Send(protocol.NewStartGame(s.PlayerID))
}

func (s *GameSession) EndTurn() error {
	if err := s.require(models.ActionEndTurn); err != nil {
		return err
	}
	return s.Send(protocol.NewEndTurn(s.PlayerID))
}

func (s *GameSession) SendChat(text string) error {
	if err := s.require(models.ActionChatSend); err != nil {
		return err
	}
	return s.Send(protocol.NewChat(s.PlayerID, text))
}

func (s *GameSession) require(action models.Action) error {
	_, err := s.requireEl(action)
	return err
}

func (s *GameSession) requireEl(action models.Action) (eligibility.Eligibility, error) {
	el, err := s.Eligibility()
	if err != nil {
		return el, err
	}
	if !el.Has(action) {
		return el, ErrNotEligible
	}
	return el, nil
}
