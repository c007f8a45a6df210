package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxChatLen caps outgoing chat text, in runes.
const MaxChatLen = 500

var (
	ErrChatTooLong   = errors.New("chat text exceeds limit")
	ErrInvalidAction = errors.New("action message is incomplete")
)

type DecodeErrorKind int

const (
	DecodeMalformed DecodeErrorKind = iota
	DecodeMissingType
	DecodeUnexpectedType
	DecodeBadPayload
)

// DecodeError is the only failure Decode produces. The offending frame is
// discarded by the caller; the connection stays open.
type DecodeError struct {
	Kind DecodeErrorKind
	Type MessageType
	Err  error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case DecodeMissingType:
		return "decode: envelope has no message type"
	case DecodeUnexpectedType:
		return fmt.Sprintf("decode: unexpected message type %q", e.Type)
	case DecodeBadPayload:
		return fmt.Sprintf("decode: bad %q payload: %v", e.Type, e.Err)
	default:
		return fmt.Sprintf("decode: malformed frame: %v", e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses one inbound frame into a typed envelope. It never panics;
// every failure comes back as *DecodeError.
func Decode(raw []byte) (Message, error) {
	var envelope struct {
		Base BaseMessage `json:"base_message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &DecodeError{Kind: DecodeMalformed, Err: err}
	}
	if envelope.Base.Type == "" {
		return nil, &DecodeError{Kind: DecodeMissingType}
	}

	switch envelope.Base.Type {
	case MessageTypeGameState:
		var msg GameStateMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, &DecodeError{Kind: DecodeBadPayload, Type: envelope.Base.Type, Err: err}
		}
		if !msg.GameState.Phase.Valid() {
			return nil, &DecodeError{Kind: DecodeBadPayload, Type: envelope.Base.Type,
				Err: fmt.Errorf("unknown phase %q", msg.GameState.Phase)}
		}
		return &msg, nil

	case MessageTypeActionError:
		var msg ActionErrorMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, &DecodeError{Kind: DecodeBadPayload, Type: envelope.Base.Type, Err: err}
		}
		return &msg, nil

	case MessageTypeConnectionError:
		var msg ConnectionErrorMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, &DecodeError{Kind: DecodeBadPayload, Type: envelope.Base.Type, Err: err}
		}
		return &msg, nil

	default:
		return nil, &DecodeError{Kind: DecodeUnexpectedType, Type: envelope.Base.Type}
	}
}

// Encode serializes an outbound command. Validity of the action itself is the
// eligibility engine's job; Encode only rejects structurally broken commands.
func Encode(msg ActionMessage) ([]byte, error) {
	if msg.Type != MessageTypeAction || msg.Action == "" {
		return nil, ErrInvalidAction
	}
	if utf8.RuneCountInString(msg.Text) > MaxChatLen {
		return nil, ErrChatTooLong
	}
	return json.Marshal(msg)
}
