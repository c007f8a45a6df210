package protocol

import (
	"github.com/mkarev/shclient/models"
)

type MessageType string

const (
	MessageTypeAction          MessageType = "action"
	MessageTypeActionError     MessageType = "action_error"
	MessageTypeGameState       MessageType = "game_state"
	MessageTypeConnectionError MessageType = "connection_error"
)

// BaseMessage is the envelope header every frame carries under "base_message".
type BaseMessage struct {
	SenderID string      `json:"sender_id"`
	Type     MessageType `json:"type"`
}

// Message is any decoded inbound envelope.
type Message interface {
	GetType() MessageType
	GetSenderID() string
}

func (m BaseMessage) GetType() MessageType { return m.Type }
func (m BaseMessage) GetSenderID() string  { return m.SenderID }

// GameStateMessage carries a full snapshot which supersedes all prior state.
type GameStateMessage struct {
	BaseMessage `json:"base_message"`
	GameState   models.GameState `json:"game_state"`
}

// ActionErrorMessage reports why the server refused a submitted command.
type ActionErrorMessage struct {
	BaseMessage `json:"base_message"`
	Reason      string `json:"reason"`
}

type ConnectionErrorType int

const (
	ConnectionErrorTypeFatal ConnectionErrorType = iota
	ConnectionErrorTypeGameInvalid
	ConnectionErrorTypePlayerInvalid
	ConnectionErrorTypeServerError
)

// ConnectionErrorMessage is a connection-level rejection. GameInvalid and
// PlayerInvalid mean the local identity has no seat here; the session must be
// abandoned rather than retried.
type ConnectionErrorMessage struct {
	BaseMessage `json:"base_message"`
	Reason      string              `json:"reason"`
	ErrorType   ConnectionErrorType `json:"error_type"`
}

// Identity reports whether the rejection invalidates the stored identity.
func (m *ConnectionErrorMessage) Identity() bool {
	return m.ErrorType == ConnectionErrorTypeGameInvalid || m.ErrorType == ConnectionErrorTypePlayerInvalid
}

// ActionMessage is the single outbound command shape. Kind-specific fields
// are omitted when empty.
type ActionMessage struct {
	BaseMessage `json:"base_message"`
	Action      models.Action `json:"action"`
	TargetIndex int           `json:"target_index,omitempty"`
	Vote        *bool         `json:"vote,omitempty"`
	Text        string        `json:"text,omitempty"`
}

func newAction(senderID string, action models.Action) ActionMessage {
	return ActionMessage{
		BaseMessage: BaseMessage{SenderID: senderID, Type: MessageTypeAction},
		Action:      action,
	}
}

func NewVote(senderID string, approve bool) ActionMessage {
	m := newAction(senderID, models.ActionVote)
	m.Vote = &approve
	return m
}

func NewNominate(senderID string, targetSeat int) ActionMessage {
	m := newAction(senderID, models.ActionNominate)
	m.TargetIndex = targetSeat
	return m
}

// NewLegislate discards the card at the given offset into the offered hand.
func NewLegislate(senderID string, cardIndex int) ActionMessage {
	m := newAction(senderID, models.ActionLegislate)
	m.TargetIndex = cardIndex
	return m
}

// NewExecutivePower issues the pending power against a seat. The action name
// on the wire equals the snapshot's pending action.
func NewExecutivePower(senderID string, power models.Action, targetSeat int) ActionMessage {
	m := newAction(senderID, power)
	m.TargetIndex = targetSeat
	return m
}

func NewStartGame(senderID string) ActionMessage {
	return newAction(senderID, models.ActionStartGame)
}

func NewEndTurn(senderID string) ActionMessage {
	return newAction(senderID, models.ActionEndTurn)
}

func NewChat(senderID, text string) ActionMessage {
	m := newAction(senderID, models.ActionChatSend)
	m.Text = text
	return m
}
