package models

import "errors"

var ErrBoardInvariant = errors.New("board counts exceed slots")

type ElectionTracker struct {
	FailedElections int `json:"failed_elections"`
	MaxFailures     int `json:"max_failures"`
}

// Board is the policy track state. ExecutiveActions maps a fascist slot index
// to the power unlocked when a policy lands on it.
type Board struct {
	LiberalPolicies  int             `json:"liberal_policies"`
	FascistPolicies  int             `json:"fascist_policies"`
	LiberalSlots     int             `json:"liberal_slots"`
	FascistSlots     int             `json:"fascist_slots"`
	ExecutiveActions map[int]Action  `json:"executive_actions"`
	ElectionTracker  ElectionTracker `json:"election_tracker"`
}

func (b Board) Validate() error {
	if b.LiberalPolicies < 0 || b.FascistPolicies < 0 {
		return ErrBoardInvariant
	}
	if b.LiberalPolicies > b.LiberalSlots || b.FascistPolicies > b.FascistSlots {
		return ErrBoardInvariant
	}
	if b.ElectionTracker.FailedElections > b.ElectionTracker.MaxFailures {
		return ErrBoardInvariant
	}
	return nil
}
