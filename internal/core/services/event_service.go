package services

import (
	"context"
	"fmt"
	"time"

	"github.com/afisha/api/internal/core/domain"
	"github.com/afisha/api/internal/core/ports"
)

type eventService struct {
	repo       ports.EventRepository
	dailyLimit int64
}

func NewEventService(repo ports.EventRepository, dailyLimit int64) ports.EventService {
	return &eventService{
		repo:       repo,
		dailyLimit: dailyLimit,
	}
}

func (s *eventService) Create(ctx context.Context, input ports.CreateEventInput) (*domain.Event, error) {
	if input.Title == "" || input.Date.IsZero() {
		return nil, domain.ErrValidation
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryMeetup
	}
	if !category.Valid() {
		return nil, domain.ErrValidation
	}

	// Rolling 24h window, not a calendar day.
	since := time.Now().Add(-24 * time.Hour)
	count, err := s.repo.CountCreatedBySince(ctx, input.CreatedBy, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent events: %w", err)
	}
	if count >= s.dailyLimit {
		return nil, domain.ErrDailyLimitReached
	}

	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		Date:        input.Date,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (s *eventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *eventService) List(ctx context.Context, category string) ([]*domain.Event, error) {
	c := domain.Category(category)
	if category != "" && !c.Valid() {
		return nil, domain.ErrValidation
	}
	return s.repo.List(ctx, c)
}

func (s *eventService) Update(ctx context.Context, id, userID int64, input ports.UpdateEventInput) (*domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != userID {
		return nil, domain.ErrNotEventCreator
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, domain.ErrValidation
		}
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, domain.ErrValidation
		}
		event.Category = *input.Category
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domain.ErrValidation
		}
		event.Date = *input.Date
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id, userID int64) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatedBy != userID {
		return domain.ErrNotEventCreator
	}
	return s.repo.Delete(ctx, id)
}
