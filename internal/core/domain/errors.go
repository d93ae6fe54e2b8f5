package domain

import "errors"

var (
	ErrValidation         = errors.New("missing required fields")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrNotEventCreator    = errors.New("user is not the event creator")
	ErrDailyLimitReached  = errors.New("daily event creation limit reached")
	ErrAlreadyJoined      = errors.New("user has already joined this event")
	ErrNotJoined          = errors.New("user did not join this event")
	ErrInternal           = errors.New("internal server error")
)
