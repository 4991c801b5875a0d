package demo

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
)

// ErrUserNotFound is returned for unknown user IDs.
var ErrUserNotFound = errors.New("demo: user not found")

// User is a demo record.
type User struct {
	ID    int
	Name  string
	Email string
}

// ToMap exposes the user as props.
func (u User) ToMap() map[string]any {
	return map[string]any{"id": u.ID, "name": u.Name, "email": u.Email}
}

// Store is an in-memory user list.
type Store struct {
	mu    sync.RWMutex
	users []User
}

// NewStore creates a store holding users.
func NewStore(users ...User) *Store {
	return &Store{users: slices.Clone(users)}
}

// SeedStore returns a store with a few users.
func SeedStore() *Store {
	return NewStore(
		User{ID: 1, Name: "Ada", Email: "ada@example.com"},
		User{ID: 2, Name: "Brian", Email: "brian@example.com"},
		User{ID: 3, Name: "Grace", Email: "grace@example.com"},
	)
}

// Users returns every user as props.
func (s *Store) Users(ctx context.Context) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]any, len(s.users))
	for i, u := range s.users {
		out[i] = u
	}
	return out, nil
}

// Count returns the number of users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Find looks a user up by its ID as it appears in a URL.
func (s *Store) Find(id string) (User, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == n {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// Rename changes a user's name.
func (s *Store) Rename(id, name string) error {
	u, err := s.Find(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i].Name = name
		}
	}
	return nil
}
