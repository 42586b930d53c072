package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_Hostile(t *testing.T) {
	assert.True(t, ActionVote.Hostile())
	assert.True(t, ActionKill.Hostile())
	assert.True(t, ActionPoison.Hostile())
	assert.True(t, ActionShoot.Hostile())

	assert.False(t, ActionSave.Hostile())
	assert.False(t, ActionGuard.Hostile())
	assert.False(t, ActionCheck.Hostile())
}

func TestAction_Consumes(t *testing.T) {
	r := Resources{Antidote: true, Poison: true, Shot: true}

	flag := ActionPoison.Consumes(&r)
	require.NotNil(t, flag)
	*flag = false
	assert.False(t, r.Poison)
	assert.True(t, r.Antidote)

	assert.Nil(t, ActionVote.Consumes(&r))
	assert.Nil(t, ActionGuard.Consumes(&r))
}
