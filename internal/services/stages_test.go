package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStage(t *testing.T) {
	for _, stage := range []string{"prospect", "qualified", "proposal", "closed-won", "closed-lost"} {
		assert.True(t, IsValidStage(stage), stage)
	}
	assert.False(t, IsValidStage(""))
	assert.False(t, IsValidStage("won"))
	assert.False(t, IsValidStage("Prospect"))
}

func TestClampProbability(t *testing.T) {
	assert.Equal(t, 0, ClampProbability(-10))
	assert.Equal(t, 0, ClampProbability(0))
	assert.Equal(t, 55, ClampProbability(55))
	assert.Equal(t, 100, ClampProbability(100))
	assert.Equal(t, 100, ClampProbability(150))
}
