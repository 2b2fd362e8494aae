package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"open", "in_progress", "blocked", "completed"} {
		st, ok := ParseStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, Status(s), st)
	}
	for _, s := range []string{"", "OPEN", "done", "in-progress"} {
		_, ok := ParseStatus(s)
		assert.False(t, ok, s)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusBlocked, true},
		{StatusOpen, StatusCompleted, false},
		{StatusOpen, StatusOpen, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusBlocked, true},
		{StatusInProgress, StatusOpen, false},
		{StatusInProgress, StatusInProgress, false},
		{StatusBlocked, StatusInProgress, true},
		{StatusBlocked, StatusOpen, true},
		{StatusBlocked, StatusCompleted, false},
		{StatusBlocked, StatusBlocked, false},
		{StatusCompleted, StatusOpen, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusBlocked, false},
		{StatusCompleted, StatusCompleted, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusOpen.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, StatusBlocked.Terminal())
	assert.Empty(t, StatusCompleted.Next())
}
