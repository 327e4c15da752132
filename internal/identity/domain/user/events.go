package user

import (
	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
)

const (
	AggregateType = "User"

	RoutingKeyRegistered = "identity.user.registered"
)

// UserRegistered is emitted when a new account is created.
type UserRegistered struct {
	domain.BaseEvent
	Email string `json:"email"`
}

// NewUserRegistered creates a UserRegistered event.
func NewUserRegistered(userID uuid.UUID, email string) *UserRegistered {
	return &UserRegistered{
		BaseEvent: domain.NewBaseEvent(userID, AggregateType, RoutingKeyRegistered),
		Email:     email,
	}
}
