package services

import (
	"context"
	"log/slog"
	"time"

	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
)

// SeriesMaintenance keeps recurring series topped up: as occurrences
// pass, the rolling window of upcoming instances is extended so each
// series always holds a full horizon of future tasks.
type SeriesMaintenance struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork
	expander *RecurrenceExpander
	urgency  *UrgencyCalculator
	ordering *OrderingService
	logger   *slog.Logger
	now      func() time.Time
}

// NewSeriesMaintenance creates a new SeriesMaintenance service.
func NewSeriesMaintenance(
	taskRepo task.Repository,
	uow sharedApplication.UnitOfWork,
	expander *RecurrenceExpander,
	urgency *UrgencyCalculator,
	ordering *OrderingService,
	logger *slog.Logger,
) *SeriesMaintenance {
	return &SeriesMaintenance{
		taskRepo: taskRepo,
		uow:      uow,
		expander: expander,
		urgency:  urgency,
		ordering: ordering,
		logger:   logger,
		now:      time.Now,
	}
}

// TopUp extends every series whose upcoming instances dropped below the
// horizon. A failing series is logged and skipped; the rest still run.
func (s *SeriesMaintenance) TopUp(ctx context.Context) (int, error) {
	refs, err := s.taskRepo.ListSeries(ctx)
	if err != nil {
		return 0, err
	}

	var created int
	for _, ref := range refs {
		n, err := s.topUpSeries(ctx, ref)
		if err != nil {
			s.logger.Error("series top-up failed",
				slog.String("series_id", ref.SeriesID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		created += n
	}
	return created, nil
}

func (s *SeriesMaintenance) topUpSeries(ctx context.Context, ref task.SeriesRef) (int, error) {
	instances, err := s.taskRepo.FindByRecurrenceID(ctx, ref.OwnerID, ref.SeriesID)
	if err != nil {
		return 0, err
	}
	if len(instances) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	var last *task.Task
	upcoming := 0
	for _, inst := range instances {
		if inst.DueDate() == nil {
			continue
		}
		if last == nil || inst.DueDate().After(*last.DueDate()) {
			last = inst
		}
		if !inst.IsCompleted() && inst.DueDate().After(now) {
			upcoming++
		}
	}
	if last == nil {
		return 0, nil
	}

	fresh := s.expander.ExtendFrom(last, upcoming)
	if len(fresh) == 0 {
		return 0, nil
	}

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		order, err := s.ordering.NextOrder(txCtx, ref.OwnerID)
		if err != nil {
			return err
		}
		for i, t := range fresh {
			t.SetOrder(order + i)
			t.SetUrgencyScore(s.urgency.Score(t.DueDate(), t.Priority()))
		}
		return s.taskRepo.SaveAll(txCtx, fresh)
	})
	if err != nil {
		return 0, err
	}
	return len(fresh), nil
}
