package models

// GamePhase is the server-declared phase of the game. The client never infers
// transitions; it renders whichever phase the latest snapshot carries.
type GamePhase string

const (
	Setup        GamePhase = "setup"
	Nomination   GamePhase = "nomination"
	Election     GamePhase = "election"
	Legislation1 GamePhase = "legislation_1"
	Legislation2 GamePhase = "legislation_2"
	Executive    GamePhase = "executive"
	GameOver     GamePhase = "game_over"
	Paused       GamePhase = "paused"
)

func (p GamePhase) Valid() bool {
	switch p {
	case Setup, Nomination, Election, Legislation1, Legislation2, Executive, GameOver, Paused:
		return true
	}
	return false
}

// Terminal reports whether no further phases can follow.
func (p GamePhase) Terminal() bool {
	return p == GameOver
}
