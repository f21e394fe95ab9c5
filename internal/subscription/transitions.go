package subscription

import (
	"github.com/taka1452/klasly-app-sub001/internal/studio"
)

// Transition is a from/to pair of studio plan statuses.
type Transition struct {
	From studio.PlanStatus
	To   studio.PlanStatus
}

// validTransitions enumerates the allowed lifecycle edges. Explicit
// cancellation and administrative trial resets are valid from any state and
// handled in CanTransition.
var validTransitions = map[Transition]bool{
	{studio.StatusTrialing, studio.StatusActive}: true, // first charge succeeded
	{studio.StatusActive, studio.StatusPastDue}:  true, // charge failed
	{studio.StatusPastDue, studio.StatusActive}:  true, // payment recovered
	{studio.StatusPastDue, studio.StatusGrace}:   true, // grace window opened
	{studio.StatusGrace, studio.StatusActive}:    true, // payment recovered late
	{studio.StatusGrace, studio.StatusCanceled}:  true, // grace window elapsed
}

// CanTransition reports whether a plan status change is allowed.
func CanTransition(from, to studio.PlanStatus) bool {
	if from == to {
		return false
	}
	// Any state may be cancelled outright or reset to a fresh trial.
	if to == studio.StatusCanceled || to == studio.StatusTrialing {
		return true
	}
	return validTransitions[Transition{from, to}]
}
