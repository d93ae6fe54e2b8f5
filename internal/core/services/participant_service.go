package services

import (
	"context"
	"fmt"

	"github.com/afisha/api/internal/core/domain"
	"github.com/afisha/api/internal/core/ports"
)

type participantService struct {
	eventRepo       ports.EventRepository
	participantRepo ports.ParticipantRepository
}

func NewParticipantService(eventRepo ports.EventRepository, participantRepo ports.ParticipantRepository) ports.ParticipantService {
	return &participantService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
	}
}

func (s *participantService) Join(ctx context.Context, eventID, userID int64) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}

	joined, err := s.participantRepo.Exists(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to check participation: %w", err)
	}
	if joined {
		return domain.ErrAlreadyJoined
	}

	return s.participantRepo.Add(ctx, eventID, userID)
}

func (s *participantService) Leave(ctx context.Context, eventID, userID int64) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}

	joined, err := s.participantRepo.Exists(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to check participation: %w", err)
	}
	if !joined {
		return domain.ErrNotJoined
	}

	return s.participantRepo.Remove(ctx, eventID, userID)
}

func (s *participantService) List(ctx context.Context, eventID int64) ([]domain.PublicUser, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	users, err := s.participantRepo.ListUsers(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	projections := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		projections = append(projections, u.Public())
	}
	return projections, nil
}
