package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGoalStatusTransitions(t *testing.T) {
	cases := []struct {
		from    GoalStatus
		to      GoalStatus
		allowed bool
	}{
		{GoalStatusActive, GoalStatusPaused, true},
		{GoalStatusActive, GoalStatusCancelled, true},
		{GoalStatusActive, GoalStatusCompleted, false},
		{GoalStatusActive, GoalStatusActive, false},
		{GoalStatusPaused, GoalStatusActive, true},
		{GoalStatusPaused, GoalStatusCancelled, true},
		{GoalStatusPaused, GoalStatusCompleted, false},
		{GoalStatusCompleted, GoalStatusActive, false},
		{GoalStatusCompleted, GoalStatusCancelled, false},
		{GoalStatusCancelled, GoalStatusActive, false},
		{GoalStatusCancelled, GoalStatusPaused, false},
	}

	for _, tc := range cases {
		g := &Goal{Status: tc.from}
		assert.Equal(t, tc.allowed, g.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplyContributionCompletesExactlyOnce(t *testing.T) {
	g := &Goal{
		Status:       GoalStatusActive,
		TargetAmount: dec("500.00"),
	}

	assert.False(t, g.ApplyContribution(dec("200.00")))
	assert.Equal(t, GoalStatusActive, g.Status)

	assert.True(t, g.ApplyContribution(dec("300.00")))
	assert.Equal(t, GoalStatusCompleted, g.Status)
	assert.True(t, g.CurrentAmount.Equal(dec("500.00")))

	// Further contributions never flip the status again.
	assert.False(t, g.ApplyContribution(dec("50.00")))
	assert.Equal(t, GoalStatusCompleted, g.Status)
}

func TestGoalPercentComplete(t *testing.T) {
	g := &Goal{TargetAmount: dec("200.00"), CurrentAmount: dec("50.00")}
	assert.True(t, g.PercentComplete().Equal(dec("25")))

	// Clamped at 100 even when overfunded.
	g.CurrentAmount = dec("250.00")
	assert.True(t, g.PercentComplete().Equal(dec("100")))

	// Degenerate target guards to zero.
	g.TargetAmount = decimal.Zero
	assert.True(t, g.PercentComplete().Equal(decimal.Zero))
}
