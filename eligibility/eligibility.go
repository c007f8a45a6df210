package eligibility

import (
	"errors"

	"github.com/mkarev/shclient/models"
)

// ErrIdentityNotRecognized means the local player id has no seat in the
// snapshot. This is not a spectator: callers must abandon the session and
// return to the join flow rather than retry the same identity.
var ErrIdentityNotRecognized = errors.New("player identity not recognized in snapshot")

// ErrNoSnapshot means eligibility was requested before any state arrived.
var ErrNoSnapshot = errors.New("no snapshot available")

// Eligibility is the full set of affordances the local seat currently has.
// It is non-authoritative: the server re-validates every command.
type Eligibility struct {
	SeatIndex int
	Alive     bool

	// Actions currently legal for the seat. Includes ActionChatSend for
	// every recognized seat, dead or alive.
	Actions []models.Action

	// TargetSeats constrains the targeted action in Actions, in seat order.
	// Nil when no action takes a target.
	TargetSeats []int

	// CardChoices is how many peeked cards are offered during legislation;
	// exactly one must be selected for discard.
	CardChoices int

	// Waiting marks a seat with nothing to do while the game is in motion,
	// including a pending executive power the client does not recognize.
	Waiting bool
}

func (e Eligibility) Has(action models.Action) bool {
	for _, a := range e.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func (e Eligibility) CanTarget(seat int) bool {
	for _, s := range e.TargetSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// Compute derives the eligible action set for one identity from a snapshot.
// Pure: same inputs, same result; it is recomputed from scratch on every
// state change and holds no transition logic of its own.
func Compute(state *models.GameState, playerID string) (Eligibility, error) {
	if state == nil {
		return Eligibility{SeatIndex: -1}, ErrNoSnapshot
	}

	seat, ok := state.SeatOf(playerID)
	if !ok {
		return Eligibility{SeatIndex: -1}, ErrIdentityNotRecognized
	}

	el := Eligibility{
		SeatIndex: seat,
		Alive:     state.Alive(seat),
		// Table talk is not gated by game rules, only by having a seat.
		Actions: []models.Action{models.ActionChatSend},
	}

	// Dead seats never act and never appear as targets; chat is all that
	// remains to them.
	if !el.Alive {
		return el, nil
	}

	switch state.Phase {
	case models.Setup:
		if playerID == state.HostID && len(state.Players) >= minPlayers {
			el.Actions = append(el.Actions, models.ActionStartGame)
		} else {
			el.Waiting = true
		}

	case models.Nomination:
		if president, ok := state.President(); ok && seat == president {
			el.Actions = append(el.Actions, models.ActionNominate)
			el.TargetSeats = nominationTargets(state)
		} else {
			el.Waiting = true
		}

	case models.Election:
		if state.VoteAt(seat) == models.VotePending {
			el.Actions = append(el.Actions, models.ActionVote)
		} else {
			// Cast ballots become pure display.
			el.Waiting = true
		}

	case models.Legislation1:
		if president, ok := state.President(); ok && seat == president {
			el.Actions = append(el.Actions, models.ActionLegislate)
			el.CardChoices = len(state.PeekedCards)
		} else {
			el.Waiting = true
		}

	case models.Legislation2:
		if chancellor, ok := state.Chancellor(); ok && seat == chancellor {
			el.Actions = append(el.Actions, models.ActionLegislate)
			el.CardChoices = len(state.PeekedCards)
		} else {
			el.Waiting = true
		}

	case models.Executive:
		president, ok := state.President()
		if !ok || seat != president {
			el.Waiting = true
			break
		}
		computeExecutive(state, &el)

	case models.GameOver, models.Paused:
		// Display-only phases.
	}

	return el, nil
}

const minPlayers = 5

// nominationTargets applies the term-limit rule: the sitting president and
// the previous government may not be nominated, and dead seats never qualify.
func nominationTargets(state *models.GameState) []int {
	var targets []int
	for seat := range state.Players {
		if !state.Alive(seat) {
			continue
		}
		if seat == state.PresidentIndex ||
			seat == state.PrevPresidentIndex ||
			seat == state.PrevChancellorIndex {
			continue
		}
		targets = append(targets, seat)
	}
	return targets
}

func computeExecutive(state *models.GameState, el *Eligibility) {
	pending, ok := state.Pending()
	if !ok {
		el.Waiting = true
		return
	}

	switch pending {
	case models.ActionInvestigate:
		el.Actions = append(el.Actions, models.ActionInvestigate, models.ActionEndTurn)
		el.TargetSeats = aliveSeats(state)

	case models.ActionExecution:
		el.Actions = append(el.Actions, models.ActionExecution)
		el.TargetSeats = aliveSeats(state)

	case models.ActionSpecialElection:
		el.Actions = append(el.Actions, models.ActionSpecialElection)
		el.TargetSeats = aliveSeats(state)

	case models.ActionPolicyPeek:
		// The peek itself needs no target; the president releases the
		// turn explicitly once done looking.
		el.Actions = append(el.Actions, models.ActionPolicyPeek, models.ActionEndTurn)

	default:
		// Unknown power: nothing to offer, surfaced as a waiting state.
		el.Waiting = true
	}
}

// aliveSeats lists every living seat, the president's own included. The
// protocol permits self-targeting; the server is the one to refuse it.
func aliveSeats(state *models.GameState) []int {
	var seats []int
	for seat := range state.Players {
		if state.Alive(seat) {
			seats = append(seats, seat)
		}
	}
	return seats
}
