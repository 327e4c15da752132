package services

import (
	"time"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/value_objects"
)

// UrgencyConfig tunes how due-date proximity maps onto urgency bonuses.
// Bucket bounds are in fractional days and inclusive.
type UrgencyConfig struct {
	OverdueBonus  int
	DueSoonBonus  int // within 1 day
	ThisWeekBonus int // within 3 days
	NextWeekBonus int // within 7 days
}

// DefaultUrgencyConfig returns the production bucket weights.
func DefaultUrgencyConfig() UrgencyConfig {
	return UrgencyConfig{
		OverdueBonus:  30,
		DueSoonBonus:  20,
		ThisWeekBonus: 10,
		NextWeekBonus: 5,
	}
}

// UrgencyCalculator derives an urgency score from priority and due date.
// It is deterministic for a fixed clock and has no side effects.
type UrgencyCalculator struct {
	config UrgencyConfig
	now    func() time.Time
}

// NewUrgencyCalculator creates a calculator with the given configuration.
func NewUrgencyCalculator(cfg UrgencyConfig) *UrgencyCalculator {
	return &UrgencyCalculator{config: cfg, now: time.Now}
}

// NewUrgencyCalculatorAt creates a calculator with a fixed clock, for tests.
func NewUrgencyCalculatorAt(cfg UrgencyConfig, now func() time.Time) *UrgencyCalculator {
	return &UrgencyCalculator{config: cfg, now: now}
}

// Score computes the urgency score for a due date and priority. The
// priority contributes its base weight (unknown priorities weigh as
// Medium); a present due date adds a bucket bonus on fractional
// days-until-due with inclusive upper bounds.
func (c *UrgencyCalculator) Score(dueDate *time.Time, priority value_objects.Priority) int {
	score := priority.Weight()

	if dueDate == nil {
		return score
	}

	daysLeft := dueDate.Sub(c.now()).Hours() / 24

	switch {
	case daysLeft < 0:
		score += c.config.OverdueBonus
	case daysLeft <= 1:
		score += c.config.DueSoonBonus
	case daysLeft <= 3:
		score += c.config.ThisWeekBonus
	case daysLeft <= 7:
		score += c.config.NextWeekBonus
	}

	return score
}
