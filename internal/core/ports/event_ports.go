package ports

import (
	"context"
	"time"

	"github.com/afisha/api/internal/core/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, category domain.Category) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) error
	CountCreatedBySince(ctx context.Context, userID int64, since time.Time) (int64, error)
}

type CreateEventInput struct {
	Title       string
	Description string
	Category    domain.Category
	Date        time.Time
	CreatedBy   int64
}

// UpdateEventInput carries a partial update; nil fields are left untouched.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Date        *time.Time
}

type EventService interface {
	Create(ctx context.Context, input CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, category string) ([]*domain.Event, error)
	Update(ctx context.Context, id, userID int64, input UpdateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, id, userID int64) error
}
