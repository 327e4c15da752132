package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

// ExpanderConfig bounds how far a recurring series is materialized.
// Expansion stops at HorizonCount instances or once an occurrence's due
// date passes HorizonSpan beyond the anchor, whichever comes first.
type ExpanderConfig struct {
	HorizonCount int
	HorizonSpan  time.Duration
}

// DefaultExpanderConfig returns the production horizon: 52 instances
// within one year of the anchor.
func DefaultExpanderConfig() ExpanderConfig {
	return ExpanderConfig{
		HorizonCount: 52,
		HorizonSpan:  365 * 24 * time.Hour,
	}
}

// RecurrenceExpander materializes the concrete instances of a recurring
// series from one authored task.
type RecurrenceExpander struct {
	config ExpanderConfig
	now    func() time.Time
}

// NewRecurrenceExpander creates an expander with the given configuration.
func NewRecurrenceExpander(cfg ExpanderConfig) *RecurrenceExpander {
	return &RecurrenceExpander{config: cfg, now: time.Now}
}

// NewRecurrenceExpanderAt creates an expander with a fixed clock, for tests.
func NewRecurrenceExpanderAt(cfg ExpanderConfig, now func() time.Time) *RecurrenceExpander {
	return &RecurrenceExpander{config: cfg, now: now}
}

// Expand turns the anchor task into a recurring series: the anchor is
// assigned a fresh series id and the returned slice holds it first,
// followed by its future occurrences with stepped due/end dates. Each
// instance is independently completable. Anchors without a due date use
// the current time as the stepping base.
func (e *RecurrenceExpander) Expand(anchor *task.Task, recurrence value_objects.Recurrence) ([]*task.Task, error) {
	if !recurrence.IsRepeating() {
		return []*task.Task{anchor}, nil
	}

	seriesID := uuid.New()
	if err := anchor.AssignSeries(recurrence, seriesID); err != nil {
		return nil, err
	}

	base := e.now().UTC()
	if anchor.DueDate() != nil {
		base = *anchor.DueDate()
	}

	var duration time.Duration
	hasEnd := anchor.DueDate() != nil && anchor.EndDate() != nil
	if hasEnd {
		duration = anchor.EndDate().Sub(*anchor.DueDate())
	}

	horizonEnd := base.Add(e.config.HorizonSpan)
	instances := []*task.Task{anchor}

	next := recurrence.Next(base)
	for len(instances) < e.config.HorizonCount && !next.After(horizonEnd) {
		due := next
		var end *time.Time
		if hasEnd {
			e := due.Add(duration)
			end = &e
		}
		instances = append(instances, anchor.CloneForOccurrence(&due, end))
		next = recurrence.Next(next)
	}

	return instances, nil
}

// ExtendFrom materializes additional occurrences of an existing series
// after the given last due date, until the series again holds count
// instances in total. Used by the maintenance job that keeps rolling
// windows of recurring tasks topped up.
func (e *RecurrenceExpander) ExtendFrom(last *task.Task, existing int) []*task.Task {
	recurrence := last.Recurrence()
	if !recurrence.IsRepeating() || last.DueDate() == nil {
		return nil
	}

	var duration time.Duration
	hasEnd := last.EndDate() != nil
	if hasEnd {
		duration = last.EndDate().Sub(*last.DueDate())
	}

	var created []*task.Task
	next := recurrence.Next(*last.DueDate())
	for existing+len(created) < e.config.HorizonCount {
		due := next
		var end *time.Time
		if hasEnd {
			e := due.Add(duration)
			end = &e
		}
		created = append(created, last.CloneForOccurrence(&due, end))
		next = recurrence.Next(next)
	}
	return created
}
