package models

// Action names both the executive powers the server can set as pending and
// the commands a player can issue. The string values are the wire values.
type Action string

const (
	// Executive powers, assignable by the server as the pending action.
	ActionInvestigate     Action = "investigate"
	ActionSpecialElection Action = "special_election"
	ActionPolicyPeek      Action = "policy_peek"
	ActionExecution       Action = "execution"

	// Player-issuable commands.
	ActionNominate  Action = "nominate"
	ActionVote      Action = "vote"
	ActionLegislate Action = "legislate"
	ActionStartGame Action = "start_game"
	ActionEndTurn   Action = "end_turn"
	ActionChatSend  Action = "chat_send"
)

// ExecutivePower reports whether a can appear as a snapshot's pending action.
func (a Action) ExecutivePower() bool {
	switch a {
	case ActionInvestigate, ActionSpecialElection, ActionPolicyPeek, ActionExecution:
		return true
	}
	return false
}

// Targeted reports whether the command carries a target seat index.
func (a Action) Targeted() bool {
	switch a {
	case ActionInvestigate, ActionSpecialElection, ActionExecution, ActionNominate, ActionLegislate:
		return true
	}
	return false
}
