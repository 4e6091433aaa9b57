package model

import "cardvault/internal/errors"

// CardStatus represents the lifecycle state of a card.
type CardStatus string

const (
	CardStatusActive         CardStatus = "ACTIVE"
	CardStatusBlockRequested CardStatus = "BLOCK_REQUESTED"
	CardStatusBlocked        CardStatus = "BLOCKED"
)

// allowedTransitions is the full set of legal status changes. Anything not
// listed here fails, including self-transitions, which makes a repeated
// block request surface as an error instead of silently succeeding.
var allowedTransitions = map[CardStatus][]CardStatus{
	CardStatusActive:         {CardStatusBlockRequested, CardStatusBlocked},
	CardStatusBlockRequested: {CardStatusBlocked, CardStatusActive},
	CardStatusBlocked:        {CardStatusActive},
}

// CanTransition reports whether moving from s to target is allowed.
func (s CardStatus) CanTransition(target CardStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition validates the status change and returns the new status.
// The current status is returned unchanged on error.
func (s CardStatus) Transition(target CardStatus) (CardStatus, error) {
	if !s.CanTransition(target) {
		return s, errors.ErrInvalidStatusTransition
	}
	return target, nil
}
