package models

// ChatEntry is one line of table talk. SenderID is blank for every entry the
// local viewer did not author; the server strips it before broadcasting.
type ChatEntry struct {
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	SentAtUnix int64  `json:"sent_at_unix"`
}

// GameState is the full snapshot the server pushes on every change. Indices
// use the wire's -1 sentinel for "unset"; consumers go through the accessor
// methods, which convert sentinels to (value, ok) pairs at the boundary.
type GameState struct {
	Players             []Player     `json:"players"`
	DeckCount           int          `json:"deck_count"`
	DiscardCount        int          `json:"discard_count"`
	Board               Board        `json:"board"`
	PresidentIndex      int          `json:"president_index"`
	ChancellorIndex     int          `json:"chancellor_index"`
	PrevPresidentIndex  int          `json:"prev_president_index"`
	PrevChancellorIndex int          `json:"prev_chancellor_index"`
	NomineeIndex        int          `json:"nominee_index"`
	Phase               GamePhase    `json:"phase"`
	Votes               []VoteResult `json:"votes,omitempty"`
	PendingAction       *Action      `json:"pending_action,omitempty"`
	PeekedCards         []Card       `json:"peeked_cards,omitempty"`
	Winner              Team         `json:"winner,omitempty"`
	HostID              string       `json:"host_id"`
	ChatHistory         []ChatEntry  `json:"chat_history"`
}

// SeatOf resolves a player id to its positional seat.
func (s *GameState) SeatOf(playerID string) (int, bool) {
	if playerID == "" {
		return -1, false
	}
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return i, true
		}
	}
	return -1, false
}

// PlayerAt returns the player at the given seat, or nil if out of bounds.
func (s *GameState) PlayerAt(seat int) *Player {
	if seat < 0 || seat >= len(s.Players) {
		return nil
	}
	return &s.Players[seat]
}

// Alive reports whether the seat exists and has not been executed.
func (s *GameState) Alive(seat int) bool {
	p := s.PlayerAt(seat)
	return p != nil && !p.IsExecuted
}

func (s *GameState) President() (int, bool) {
	return seatOrUnset(s, s.PresidentIndex)
}

func (s *GameState) Chancellor() (int, bool) {
	return seatOrUnset(s, s.ChancellorIndex)
}

func (s *GameState) Nominee() (int, bool) {
	return seatOrUnset(s, s.NomineeIndex)
}

// Pending returns the executive power awaiting resolution, if any.
func (s *GameState) Pending() (Action, bool) {
	if s.PendingAction == nil {
		return "", false
	}
	return *s.PendingAction, true
}

// VoteAt reads the sparse ballot array; seats beyond its length are Pending.
func (s *GameState) VoteAt(seat int) VoteResult {
	if seat < 0 || seat >= len(s.Votes) {
		return VotePending
	}
	return s.Votes[seat]
}

func (s *GameState) Validate() error {
	return s.Board.Validate()
}

func seatOrUnset(s *GameState, idx int) (int, bool) {
	if idx < 0 || idx >= len(s.Players) {
		return -1, false
	}
	return idx, true
}
