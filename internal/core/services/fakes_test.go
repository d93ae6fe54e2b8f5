package services

import (
	"context"
	"sync"
	"time"

	"github.com/afisha/api/internal/core/domain"
)

// In-memory repositories used across the service tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeLedger struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{revoked: map[string]time.Time{}}
}

func (l *fakeLedger) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.revoked[token]; !ok {
		l.revoked[token] = expiresAt
	}
	return nil
}

func (l *fakeLedger) IsRevoked(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.revoked[token]
	return ok, nil
}

func (l *fakeLedger) DeleteExpired(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for t, exp := range l.revoked {
		if exp.Before(time.Now()) {
			delete(l.revoked, t)
			n++
		}
	}
	return n, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEventRepo) List(_ context.Context, category domain.Category) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Event
	for _, e := range r.events {
		if category != "" && e.Category != category {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	event.UpdatedAt = time.Now()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) CountCreatedBySince(_ context.Context, userID int64, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.CreatedBy == userID && !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeParticipantRepo struct {
	mu      sync.Mutex
	joined  map[[2]int64]time.Time
	userIDs map[int64][]int64
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{joined: map[[2]int64]time.Time{}, userIDs: map[int64][]int64{}}
}

func (r *fakeParticipantRepo) Add(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{eventID, userID}
	if _, ok := r.joined[key]; ok {
		return nil
	}
	r.joined[key] = time.Now()
	r.userIDs[eventID] = append(r.userIDs[eventID], userID)
	return nil
}

func (r *fakeParticipantRepo) Remove(_ context.Context, eventID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.joined, [2]int64{eventID, userID})
	ids := r.userIDs[eventID][:0]
	for _, id := range r.userIDs[eventID] {
		if id != userID {
			ids = append(ids, id)
		}
	}
	r.userIDs[eventID] = ids
	return nil
}

func (r *fakeParticipantRepo) Exists(_ context.Context, eventID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.joined[[2]int64{eventID, userID}]
	return ok, nil
}

func (r *fakeParticipantRepo) ListUsers(_ context.Context, eventID int64) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, id := range r.userIDs[eventID] {
		out = append(out, &domain.User{ID: id})
	}
	return out, nil
}
