package store

import (
	"testing"

	"github.com/mkarev/shclient/models"
)

func snap(phase models.GamePhase, players ...string) *models.GameState {
	s := &models.GameState{
		Phase:               phase,
		PresidentIndex:      -1,
		ChancellorIndex:     -1,
		PrevPresidentIndex:  -1,
		PrevChancellorIndex: -1,
		NomineeIndex:        -1,
	}
	for _, id := range players {
		s.Players = append(s.Players, models.Player{ID: id, Username: id})
	}
	return s
}

func TestCurrentBeforeFirstApply(t *testing.T) {
	s := New()
	if s.Current() != nil {
		t.Fatal("Current should be nil before the first snapshot")
	}
}

// Apply is replacement, not merge: nothing from an earlier snapshot survives
// a later one.
func TestApplyReplacesWholesale(t *testing.T) {
	s := New()

	first := snap(models.Election, "p0", "p1", "p2")
	first.Votes = []models.VoteResult{models.VoteJa, models.VotePending, models.VotePending}
	first.PendingAction = func() *models.Action { a := models.ActionExecution; return &a }()
	first.PeekedCards = []models.Card{models.CardLiberal}
	s.Apply(first)

	second := snap(models.Nomination, "p0", "p1", "p2")
	s.Apply(second)

	got := s.Current()
	if got != second {
		t.Fatal("Current should be exactly the second snapshot")
	}
	if got.Votes != nil {
		t.Error("votes leaked from the first snapshot")
	}
	if got.PendingAction != nil {
		t.Error("pending action leaked from the first snapshot")
	}
	if got.PeekedCards != nil {
		t.Error("peeked cards leaked from the first snapshot")
	}
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	s := New()

	var order []int
	s.Subscribe(func(state *models.GameState) { order = append(order, 1) })
	s.Subscribe(func(state *models.GameState) { order = append(order, 2) })

	s.Apply(snap(models.Setup, "p0"))

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("notification order = %v", order)
	}
}

func TestSubscriberSeesAppliedSnapshot(t *testing.T) {
	s := New()

	var seen *models.GameState
	s.Subscribe(func(state *models.GameState) { seen = state })

	applied := snap(models.Setup, "p0")
	s.Apply(applied)

	if seen != applied {
		t.Fatal("subscriber did not receive the applied snapshot")
	}
	if s.Current() != applied {
		t.Fatal("Current disagrees with the applied snapshot")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.Apply(snap(models.Setup, "p0"))
	s.Reset()
	if s.Current() != nil {
		t.Fatal("Reset should discard the snapshot")
	}
}
