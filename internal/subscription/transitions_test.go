package subscription

import (
	"testing"

	"github.com/taka1452/klasly-app-sub001/internal/studio"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from studio.PlanStatus
		to   studio.PlanStatus
		want bool
	}{
		{"trial activates", studio.StatusTrialing, studio.StatusActive, true},
		{"active degrades to past_due", studio.StatusActive, studio.StatusPastDue, true},
		{"past_due recovers", studio.StatusPastDue, studio.StatusActive, true},
		{"past_due enters grace", studio.StatusPastDue, studio.StatusGrace, true},
		{"grace recovers", studio.StatusGrace, studio.StatusActive, true},
		{"grace cancels", studio.StatusGrace, studio.StatusCanceled, true},
		{"anything cancels", studio.StatusTrialing, studio.StatusCanceled, true},
		{"active cancels", studio.StatusActive, studio.StatusCanceled, true},
		{"reset to trial", studio.StatusCanceled, studio.StatusTrialing, true},
		{"active cannot re-enter trial path to grace", studio.StatusActive, studio.StatusGrace, false},
		{"trialing cannot jump to past_due", studio.StatusTrialing, studio.StatusPastDue, false},
		{"canceled cannot reactivate directly", studio.StatusCanceled, studio.StatusActive, false},
		{"same state is not a transition", studio.StatusActive, studio.StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
