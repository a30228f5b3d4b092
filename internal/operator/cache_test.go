package operator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

func TestAssignmentCache_FillAfterInvalidateIsDropped(t *testing.T) {
	c := newAssignmentCache(8, time.Minute)
	a := domain.OperatorAssignment{Identity: "op1", GameNumber: 1}

	gen := c.Generation()
	c.Invalidate("op1")
	assert.False(t, c.Fill(a, gen))
	_, ok := c.Get("op1")
	assert.False(t, ok)

	assert.True(t, c.Fill(a, c.Generation()))
	got, ok := c.Get("op1")
	assert.True(t, ok)
	assert.Equal(t, 1, got.GameNumber)
}

func TestAssignmentCache_FillDoesNotOverwriteSet(t *testing.T) {
	c := newAssignmentCache(8, time.Minute)

	gen := c.Generation()
	c.Set(domain.OperatorAssignment{Identity: "op1", GameNumber: 2})
	assert.False(t, c.Fill(domain.OperatorAssignment{Identity: "op1", GameNumber: 1}, gen))

	got, ok := c.Get("op1")
	assert.True(t, ok)
	assert.Equal(t, 2, got.GameNumber)
}
