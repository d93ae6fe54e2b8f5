package ports

import (
	"context"

	"github.com/afisha/api/internal/core/domain"
)

type ParticipantRepository interface {
	Add(ctx context.Context, eventID, userID int64) error
	Remove(ctx context.Context, eventID, userID int64) error
	Exists(ctx context.Context, eventID, userID int64) (bool, error)
	ListUsers(ctx context.Context, eventID int64) ([]*domain.User, error)
}

type ParticipantService interface {
	Join(ctx context.Context, eventID, userID int64) error
	Leave(ctx context.Context, eventID, userID int64) error
	List(ctx context.Context, eventID int64) ([]domain.PublicUser, error)
}
