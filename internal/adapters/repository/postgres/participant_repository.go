package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/afisha/api/internal/core/domain"
	"github.com/afisha/api/internal/core/ports"
)

type participantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) ports.ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Add(ctx context.Context, eventID, userID int64) error {
	query := `INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, eventID, userID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyJoined
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func (r *participantRepository) Remove(ctx context.Context, eventID, userID int64) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}

func (r *participantRepository) Exists(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

func (r *participantRepository) ListUsers(ctx context.Context, eventID int64) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.created_at
		FROM event_participants ep
		JOIN users u ON u.id = ep.user_id
		WHERE ep.event_id = $1
		ORDER BY ep.joined_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}
	return users, nil
}
