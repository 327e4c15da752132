package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
)

// firstOrder is the order index assigned to an owner's first task.
const firstOrder = 1

// OrderingService maintains the per-owner manual display ordering.
type OrderingService struct {
	taskRepo task.Repository
	uow      sharedApplication.UnitOfWork

	// Reorders for the same owner must not interleave; the store's bulk
	// update is one batch, but two concurrent batches for one owner could
	// still leave a mixed index. Serialize per owner. Entries are never
	// evicted, so the map grows with the number of owners that ever
	// reordered in this process; one mutex per active user is small
	// enough that eviction is not worth the locking it would take.
	mu     sync.Mutex
	owners map[uuid.UUID]*sync.Mutex
}

// NewOrderingService creates a new OrderingService.
func NewOrderingService(taskRepo task.Repository, uow sharedApplication.UnitOfWork) *OrderingService {
	return &OrderingService{
		taskRepo: taskRepo,
		uow:      uow,
		owners:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// NextOrder returns one greater than the owner's current maximum order
// index, or firstOrder when the owner has no tasks yet.
func (s *OrderingService) NextOrder(ctx context.Context, ownerID uuid.UUID) (int, error) {
	max, ok, err := s.taskRepo.MaxOrder(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return firstOrder, nil
	}
	return max + 1, nil
}

// Reorder assigns order = position for each id in orderedIDs, scoped to
// tasks owned by ownerID. Ids the owner does not hold are silently
// ignored; the whole reindex runs as one transaction.
func (s *OrderingService) Reorder(ctx context.Context, ownerID uuid.UUID, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	updates := make([]task.OrderUpdate, len(orderedIDs))
	for i, id := range orderedIDs {
		updates[i] = task.OrderUpdate{ID: id, Order: i}
	}

	return sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		return s.taskRepo.BulkUpdateOrder(txCtx, ownerID, updates)
	})
}

func (s *OrderingService) ownerLock(ownerID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.owners[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		s.owners[ownerID] = lock
	}
	return lock
}
