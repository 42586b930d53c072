package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePhase(t *testing.T) {
	tests := []struct {
		name  string
		round int
		alive int
		want  Phase
	}{
		{"opening round", 1, 12, PhaseEarly},
		{"second round still early", 2, 10, PhaseEarly},
		{"mid game", 3, 9, PhaseMid},
		{"round five with a full table", 5, 8, PhaseMid},
		{"late by round", 6, 8, PhaseLate},
		{"late by attrition", 4, 6, PhaseLate},
		{"critical overrides round", 1, 4, PhaseCritical},
		{"critical endgame", 9, 3, PhaseCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, derivePhase(tt.round, tt.alive))
		})
	}
}

func TestPhaseMultiplier(t *testing.T) {
	assert.Equal(t, 0.75, PhaseEarly.Multiplier())
	assert.Equal(t, 1.0, PhaseMid.Multiplier())
	assert.Equal(t, 1.25, PhaseLate.Multiplier())
	assert.Equal(t, 1.4, PhaseCritical.Multiplier())
}
