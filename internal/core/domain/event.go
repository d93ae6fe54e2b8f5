package domain

import (
	"time"
)

type Category string

const (
	CategoryConcert    Category = "concert"
	CategoryLecture    Category = "lecture"
	CategoryExhibition Category = "exhibition"
	CategoryMeetup     Category = "meetup"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryConcert, CategoryLecture, CategoryExhibition, CategoryMeetup:
		return true
	}
	return false
}

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Date        time.Time `json:"date"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Participant struct {
	EventID  int64     `json:"event_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
