package models

type PlayerRole string

const (
	RoleLiberal    PlayerRole = "liberal"
	RoleFascist    PlayerRole = "fascist"
	RoleHitler     PlayerRole = "hitler"
	RoleHidden     PlayerRole = "hidden"
	RoleUnassigned PlayerRole = "unassigned"
)

type Team string

const (
	TeamLiberal    Team = "liberal"
	TeamFascist    Team = "fascist"
	TeamUnassigned Team = "unassigned"
)

type Card string

const (
	CardLiberal Card = "liberal"
	CardFascist Card = "fascist"
)

// VoteResult uses the wire's integer encoding. VoteHidden is the value the
// server substitutes for other seats' ballots while an election is open.
type VoteResult int

const (
	VotePending VoteResult = iota
	VoteHidden
	VoteJa
	VoteNein
)

// Cast reports whether the seat's ballot is locked in.
func (v VoteResult) Cast() bool {
	return v != VotePending
}

// Player is one seat's view of another player. Role is RoleHidden for every
// seat the local identity is not authorized to see.
type Player struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        PlayerRole `json:"role"`
	IsExecuted  bool       `json:"is_executed"`
	IsConnected bool       `json:"is_connected"`
	IsBot       bool       `json:"is_bot"`
}
