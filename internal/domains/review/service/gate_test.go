package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveEngagementState(t *testing.T) {
	tests := []struct {
		name         string
		hasCommented bool
		hasReviewed  bool
		want         EngagementState
	}{
		{"no activity", false, false, StateNoComment},
		{"commented only", true, false, StateCommented},
		{"commented and reviewed", true, true, StateReviewed},
		{"reviewed without comment", false, true, StateReviewed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveEngagementState(tt.hasCommented, tt.hasReviewed))
		})
	}
}

func TestGateSatisfied(t *testing.T) {
	assert.False(t, GateSatisfied(StateNoComment))
	assert.True(t, GateSatisfied(StateCommented))
	assert.True(t, GateSatisfied(StateReviewed))
}

func TestEngagementStateString(t *testing.T) {
	assert.Equal(t, "no_comment", StateNoComment.String())
	assert.Equal(t, "commented", StateCommented.String())
	assert.Equal(t, "reviewed", StateReviewed.String())
}
