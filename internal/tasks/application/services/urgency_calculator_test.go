package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

func TestUrgencyCalculator_Score(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	calc := NewUrgencyCalculatorAt(DefaultUrgencyConfig(), func() time.Time { return now })

	due := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	tests := []struct {
		name     string
		dueDate  *time.Time
		priority value_objects.Priority
		expected int
	}{
		{"no due date low", nil, value_objects.PriorityLow, 1},
		{"no due date medium", nil, value_objects.PriorityMedium, 5},
		{"no due date high", nil, value_objects.PriorityHigh, 10},
		{"overdue", due(-time.Hour), value_objects.PriorityMedium, 35},
		{"overdue by far", due(-30 * 24 * time.Hour), value_objects.PriorityLow, 31},
		{"due in half a day", due(12 * time.Hour), value_objects.PriorityMedium, 25},
		{"due exactly in one day", due(24 * time.Hour), value_objects.PriorityMedium, 25},
		{"due in two days", due(48 * time.Hour), value_objects.PriorityMedium, 15},
		{"due exactly in three days", due(72 * time.Hour), value_objects.PriorityMedium, 15},
		{"due in five days", due(5 * 24 * time.Hour), value_objects.PriorityMedium, 10},
		{"due exactly in seven days", due(7 * 24 * time.Hour), value_objects.PriorityMedium, 10},
		{"due beyond a week", due(8 * 24 * time.Hour), value_objects.PriorityMedium, 5},
		{"overdue high priority", due(-time.Minute), value_objects.PriorityHigh, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.Score(tt.dueDate, tt.priority))
		})
	}
}

func TestUrgencyCalculator_UnknownPriorityScoresAsMedium(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	calc := NewUrgencyCalculatorAt(DefaultUrgencyConfig(), func() time.Time { return now })

	assert.Equal(t, 5, calc.Score(nil, value_objects.Priority(99)))
}

func TestUrgencyCalculator_CustomConfig(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cfg := UrgencyConfig{OverdueBonus: 100, DueSoonBonus: 50, ThisWeekBonus: 25, NextWeekBonus: 12}
	calc := NewUrgencyCalculatorAt(cfg, func() time.Time { return now })

	overdue := now.Add(-time.Hour)
	assert.Equal(t, 105, calc.Score(&overdue, value_objects.PriorityMedium))
}
