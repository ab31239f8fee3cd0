package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatusOnMessage(t *testing.T) {
	tests := []struct {
		name    string
		current TicketStatus
		want    TicketStatus
	}{
		{"new ticket moves to in_progress", TicketStatusNew, TicketStatusInProgress},
		{"in_progress stays in_progress", TicketStatusInProgress, TicketStatusInProgress},
		{"resolved ticket reopens", TicketStatusResolved, TicketStatusInProgress},
		{"closed ticket stays closed", TicketStatusClosed, TicketStatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStatusOnMessage(tt.current))
		})
	}
}

func TestTicketStatusClosed(t *testing.T) {
	assert.True(t, TicketStatusClosed.Closed())
	assert.False(t, TicketStatusNew.Closed())
	assert.False(t, TicketStatusInProgress.Closed())
	assert.False(t, TicketStatusResolved.Closed())
}

func TestTicketStatusValid(t *testing.T) {
	for _, status := range []TicketStatus{TicketStatusNew, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed} {
		assert.True(t, status.Valid())
	}
	assert.False(t, TicketStatus("escalated").Valid())
	assert.False(t, TicketStatus("").Valid())
}

func TestTicketPriorityValid(t *testing.T) {
	for _, priority := range []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent} {
		assert.True(t, priority.Valid())
	}
	assert.False(t, TicketPriority("critical").Valid())
}
