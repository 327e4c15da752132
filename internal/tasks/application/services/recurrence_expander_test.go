package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

var expanderNow = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

func newExpander(t *testing.T, cfg ExpanderConfig) *RecurrenceExpander {
	t.Helper()
	return NewRecurrenceExpanderAt(cfg, func() time.Time { return expanderNow })
}

func newAnchorTask(t *testing.T, due, end *time.Time) *task.Task {
	t.Helper()
	tk, err := task.NewTask(uuid.New(), "Weekly review")
	require.NoError(t, err)
	if due != nil {
		require.NoError(t, tk.SetDueDate(due))
	}
	if end != nil {
		require.NoError(t, tk.SetEndDate(end))
	}
	return tk
}

func TestRecurrenceExpander_Expand(t *testing.T) {
	t.Run("non repeating returns anchor only", func(t *testing.T) {
		e := newExpander(t, DefaultExpanderConfig())
		anchor := newAnchorTask(t, nil, nil)

		instances, err := e.Expand(anchor, value_objects.RecurrenceNone)
		require.NoError(t, err)
		require.Len(t, instances, 1)
		assert.Same(t, anchor, instances[0])
		assert.False(t, anchor.IsRecurring())
	})

	t.Run("daily series capped by count", func(t *testing.T) {
		e := newExpander(t, ExpanderConfig{HorizonCount: 5, HorizonSpan: 365 * 24 * time.Hour})
		due := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
		anchor := newAnchorTask(t, &due, nil)

		instances, err := e.Expand(anchor, value_objects.RecurrenceDaily)
		require.NoError(t, err)
		require.Len(t, instances, 5)
		assert.Same(t, anchor, instances[0])

		seriesID := anchor.RecurrenceID()
		require.NotNil(t, seriesID)
		for i, inst := range instances {
			assert.Equal(t, seriesID, inst.RecurrenceID(), "instance %d", i)
			assert.Equal(t, value_objects.RecurrenceDaily, inst.Recurrence())
			expected := due.AddDate(0, 0, i)
			assert.Equal(t, expected, *inst.DueDate(), "instance %d", i)
		}

		// Every instance has its own identity.
		ids := make(map[uuid.UUID]struct{}, len(instances))
		for _, inst := range instances {
			ids[inst.ID()] = struct{}{}
		}
		assert.Len(t, ids, 5)
	})

	t.Run("weekly series capped by span", func(t *testing.T) {
		e := newExpander(t, ExpanderConfig{HorizonCount: 100, HorizonSpan: 21 * 24 * time.Hour})
		due := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
		anchor := newAnchorTask(t, &due, nil)

		instances, err := e.Expand(anchor, value_objects.RecurrenceWeekly)
		require.NoError(t, err)
		// Anchor plus occurrences at +7, +14 and +21 days.
		assert.Len(t, instances, 4)
	})

	t.Run("end duration preserved", func(t *testing.T) {
		e := newExpander(t, ExpanderConfig{HorizonCount: 3, HorizonSpan: 365 * 24 * time.Hour})
		due := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
		end := due.Add(90 * time.Minute)
		anchor := newAnchorTask(t, &due, &end)

		instances, err := e.Expand(anchor, value_objects.RecurrenceDaily)
		require.NoError(t, err)
		require.Len(t, instances, 3)
		for _, inst := range instances {
			require.NotNil(t, inst.EndDate())
			assert.Equal(t, 90*time.Minute, inst.EndDate().Sub(*inst.DueDate()))
		}
	})

	t.Run("anchor without due date steps from now", func(t *testing.T) {
		e := newExpander(t, ExpanderConfig{HorizonCount: 2, HorizonSpan: 365 * 24 * time.Hour})
		anchor := newAnchorTask(t, nil, nil)

		instances, err := e.Expand(anchor, value_objects.RecurrenceDaily)
		require.NoError(t, err)
		require.Len(t, instances, 2)
		assert.Nil(t, anchor.DueDate())
		assert.Equal(t, expanderNow.AddDate(0, 0, 1), *instances[1].DueDate())
	})

	t.Run("monthly dates are distinct", func(t *testing.T) {
		e := newExpander(t, ExpanderConfig{HorizonCount: 12, HorizonSpan: 365 * 24 * time.Hour})
		due := time.Date(2025, 4, 15, 9, 0, 0, 0, time.UTC)
		anchor := newAnchorTask(t, &due, nil)

		instances, err := e.Expand(anchor, value_objects.RecurrenceMonthly)
		require.NoError(t, err)
		require.Len(t, instances, 12)

		seen := make(map[time.Time]struct{})
		for _, inst := range instances {
			seen[*inst.DueDate()] = struct{}{}
		}
		assert.Len(t, seen, 12)
	})
}

func TestRecurrenceExpander_ExtendFrom(t *testing.T) {
	t.Run("tops series up to horizon count", func(t *testing.T) {
		e := newExpander(t, ExpanderConfig{HorizonCount: 5, HorizonSpan: 365 * 24 * time.Hour})
		due := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
		last := newAnchorTask(t, &due, nil)
		require.NoError(t, last.AssignSeries(value_objects.RecurrenceDaily, uuid.New()))

		created := e.ExtendFrom(last, 3)
		require.Len(t, created, 2)
		assert.Equal(t, due.AddDate(0, 0, 1), *created[0].DueDate())
		assert.Equal(t, due.AddDate(0, 0, 2), *created[1].DueDate())
		for _, inst := range created {
			assert.Equal(t, last.RecurrenceID(), inst.RecurrenceID())
		}
	})

	t.Run("full series creates nothing", func(t *testing.T) {
		e := newExpander(t, ExpanderConfig{HorizonCount: 3, HorizonSpan: 365 * 24 * time.Hour})
		due := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
		last := newAnchorTask(t, &due, nil)
		require.NoError(t, last.AssignSeries(value_objects.RecurrenceWeekly, uuid.New()))

		assert.Empty(t, e.ExtendFrom(last, 3))
	})

	t.Run("non repeating last creates nothing", func(t *testing.T) {
		e := newExpander(t, DefaultExpanderConfig())
		due := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
		last := newAnchorTask(t, &due, nil)

		assert.Empty(t, e.ExtendFrom(last, 1))
	})
}
