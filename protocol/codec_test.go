package protocol

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/mkarev/shclient/models"
)

const gameStateFrame = `{
	"base_message": {"sender_id": "server", "type": "game_state"},
	"game_state": {
		"players": [
			{"id": "p0", "username": "alice", "role": "liberal", "is_executed": false, "is_connected": true, "is_bot": false},
			{"id": "", "username": "bob", "role": "hidden", "is_executed": true, "is_connected": true, "is_bot": true}
		],
		"deck_count": 14,
		"discard_count": 0,
		"board": {
			"liberal_policies": 1,
			"fascist_policies": 2,
			"liberal_slots": 5,
			"fascist_slots": 6,
			"executive_actions": {"3": "policy_peek", "4": "execution", "5": "execution"},
			"election_tracker": {"failed_elections": 1, "max_failures": 3}
		},
		"president_index": 0,
		"chancellor_index": -1,
		"prev_president_index": -1,
		"prev_chancellor_index": -1,
		"nominee_index": -1,
		"phase": "nomination",
		"host_id": "p0",
		"chat_history": [
			{"sender_id": "p0", "sender_name": "alice", "text": "hello", "sent_at_unix": 1700000000}
		]
	}
}`

func TestDecodeGameState(t *testing.T) {
	msg, err := Decode([]byte(gameStateFrame))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gs, ok := msg.(*GameStateMessage)
	if !ok {
		t.Fatalf("expected *GameStateMessage, got %T", msg)
	}
	if gs.GetType() != MessageTypeGameState {
		t.Errorf("type = %q", gs.GetType())
	}

	state := gs.GameState
	if len(state.Players) != 2 {
		t.Fatalf("players = %d", len(state.Players))
	}
	if state.Phase != models.Nomination {
		t.Errorf("phase = %q", state.Phase)
	}
	if state.Board.ExecutiveActions[3] != models.ActionPolicyPeek {
		t.Errorf("executive action at 3 = %q", state.Board.ExecutiveActions[3])
	}
	if _, ok := state.Chancellor(); ok {
		t.Error("chancellor sentinel -1 should decode as unset")
	}
	if _, ok := state.Nominee(); ok {
		t.Error("nominee sentinel -1 should decode as unset")
	}
	if _, ok := state.Pending(); ok {
		t.Error("absent pending_action should decode as unset")
	}
	if !state.Players[1].IsExecuted || !state.Players[1].IsBot {
		t.Error("player flags lost in decode")
	}
}

func TestDecodeActionError(t *testing.T) {
	raw := `{"base_message": {"sender_id": "server", "type": "action_error"}, "reason": "not your turn"}`

	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ae, ok := msg.(*ActionErrorMessage)
	if !ok {
		t.Fatalf("expected *ActionErrorMessage, got %T", msg)
	}
	if ae.Reason != "not your turn" {
		t.Errorf("reason = %q", ae.Reason)
	}
}

func TestDecodeConnectionError(t *testing.T) {
	raw := `{"base_message": {"sender_id": "server", "type": "connection_error"}, "reason": "Player not found", "error_type": 2}`

	msg, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ce, ok := msg.(*ConnectionErrorMessage)
	if !ok {
		t.Fatalf("expected *ConnectionErrorMessage, got %T", msg)
	}
	if !ce.Identity() {
		t.Error("PlayerInvalid should be an identity rejection")
	}
}

func TestDecodeFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind DecodeErrorKind
	}{
		{name: "not json", raw: `{{{`, kind: DecodeMalformed},
		{name: "no envelope", raw: `{"foo": 1}`, kind: DecodeMissingType},
		{name: "empty type", raw: `{"base_message": {"sender_id": "", "type": ""}}`, kind: DecodeMissingType},
		{name: "unknown type", raw: `{"base_message": {"sender_id": "", "type": "telemetry"}}`, kind: DecodeUnexpectedType},
		{name: "unknown phase", raw: `{"base_message": {"sender_id": "", "type": "game_state"}, "game_state": {"phase": "intermission"}}`, kind: DecodeBadPayload},
		{name: "bad payload shape", raw: `{"base_message": {"sender_id": "", "type": "game_state"}, "game_state": {"players": 7}}`, kind: DecodeBadPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode([]byte(tc.raw))
			if msg != nil {
				t.Fatalf("expected nil message, got %T", msg)
			}
			de, ok := err.(*DecodeError)
			if !ok {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
			if de.Kind != tc.kind {
				t.Errorf("kind = %d, want %d", de.Kind, tc.kind)
			}
			if de.Error() == "" {
				t.Error("empty error string")
			}
		})
	}
}

// Decoding is pure: the same frame decodes to structurally equal envelopes.
func TestDecodeIdempotent(t *testing.T) {
	first, err := Decode([]byte(gameStateFrame))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Decode([]byte(gameStateFrame))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("decoding the same frame twice produced different envelopes")
	}
}

func TestEncodeCommands(t *testing.T) {
	cases := []struct {
		name string
		msg  ActionMessage
		want map[string]interface{}
	}{
		{
			name: "vote carries the boolean",
			msg:  NewVote("p1", true),
			want: map[string]interface{}{"action": "vote", "vote": true},
		},
		{
			name: "nominate carries the seat",
			msg:  NewNominate("p1", 3),
			want: map[string]interface{}{"action": "nominate", "target_index": float64(3)},
		},
		{
			name: "executive power uses the pending action name",
			msg:  NewExecutivePower("p1", models.ActionExecution, 2),
			want: map[string]interface{}{"action": "execution", "target_index": float64(2)},
		},
		{
			name: "start game has no extra fields",
			msg:  NewStartGame("p1"),
			want: map[string]interface{}{"action": "start_game"},
		},
		{
			name: "end turn",
			msg:  NewEndTurn("p1"),
			want: map[string]interface{}{"action": "end_turn"},
		},
		{
			name: "chat carries text",
			msg:  NewChat("p1", "hello table"),
			want: map[string]interface{}{"action": "chat_send", "text": "hello table"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.msg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var decoded map[string]interface{}
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("encode produced invalid json: %v", err)
			}

			base, ok := decoded["base_message"].(map[string]interface{})
			if !ok {
				t.Fatal("missing base_message header")
			}
			if base["sender_id"] != "p1" || base["type"] != "action" {
				t.Errorf("header = %v", base)
			}
			for key, want := range tc.want {
				if decoded[key] != want {
					t.Errorf("%s = %v, want %v", key, decoded[key], want)
				}
			}
		})
	}
}

func TestEncodeRejectsBrokenCommands(t *testing.T) {
	if _, err := Encode(ActionMessage{}); err != ErrInvalidAction {
		t.Errorf("empty command: err = %v", err)
	}

	long := NewChat("p1", strings.Repeat("a", MaxChatLen+1))
	if _, err := Encode(long); err != ErrChatTooLong {
		t.Errorf("oversized chat: err = %v", err)
	}

	exact := NewChat("p1", strings.Repeat("ü", MaxChatLen))
	if _, err := Encode(exact); err != nil {
		t.Errorf("chat at the limit should encode, got %v", err)
	}
}
