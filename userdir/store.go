package userdir

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Store is a mutex-guarded, append-only list of users in creation order.
// It is the only mutable shared state at request time: every operation
// holds the lock for its full duration, which serializes uniqueness checks
// and id assignment under concurrent creates.
type Store struct {
	mu    sync.Mutex
	users []User
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewSeededStore returns a store preloaded with two demo users.
func NewSeededStore() *Store {
	now := time.Now().UTC()
	ferrisTZ := "America/New_York"
	ferrisLogin := now.Add(-4 * time.Hour)
	rustaceanTZ := "Europe/Berlin"

	return &Store{
		users: []User{
			{
				ID:        1,
				Username:  "ferris",
				Email:     "ferris@example.com",
				CreatedAt: now.AddDate(0, 0, -7),
				Roles:     []Role{RoleAdmin},
				Status:    StatusActive,
				Active:    true,
				Preferences: &Preferences{
					Theme:       ThemeDark,
					Timezone:    &ferrisTZ,
					LastLoginAt: &ferrisLogin,
				},
			},
			{
				ID:        2,
				Username:  "rustacean",
				Email:     "rustacean@example.com",
				CreatedAt: now.AddDate(0, 0, -30),
				Roles:     []Role{RoleEditor, RoleViewer},
				Status:    StatusSuspended,
				Active:    false,
				Preferences: &Preferences{
					Theme:    ThemeLight,
					Timezone: &rustaceanTZ,
				},
			},
		},
	}
}

// clone deep-copies a user record. Roles and Preferences (and the
// pointers inside it) get fresh allocations, so nothing handed out by
// the store aliases its internal records.
func (u User) clone() User {
	cp := u
	if u.Roles != nil {
		cp.Roles = append([]Role(nil), u.Roles...)
	}
	if u.Preferences != nil {
		p := *u.Preferences
		if p.Timezone != nil {
			tz := *p.Timezone
			p.Timezone = &tz
		}
		if p.LastLoginAt != nil {
			at := *p.LastLoginAt
			p.LastLoginAt = &at
		}
		cp.Preferences = &p
	}
	return cp
}

// List returns a snapshot copy of all users in creation order. It never
// fails.
func (s *Store) List() []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, len(s.users))
	for i, u := range s.users {
		out[i] = u.clone()
	}
	return out
}

// Get returns the user with the given id, or a user_not_found error.
func (s *Store) Get(id uint64) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return u.clone(), nil
		}
	}
	return User{}, newError(CodeUserNotFound, fmt.Sprintf("no user with id %d", id))
}

// Create validates the request, assigns the next id, and appends the new
// user. Usernames are unique case-insensitively. New users start invited
// and active with the system theme; roles default to {viewer}.
//
// Ids are assigned as max existing id + 1. The store is append-only, so ids
// are never reused, but the policy is only safe under the store's own lock
// and is not unique across store resets.
func (s *Store) Create(req CreateUserRequest) (User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return User{}, newError(CodeInvalidUsername, "username must not be empty").
			withDetail("provide a non-empty username")
	}

	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") {
		return User{}, newError(CodeInvalidEmail, "email address must contain '@'").
			withDetail("example: user@example.com")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return User{}, newError(CodeUserExists, fmt.Sprintf("a user named %q already exists", username))
		}
	}

	var maxID uint64
	for _, u := range s.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	roles := []Role{RoleViewer}
	if len(req.Roles) > 0 {
		roles = append([]Role(nil), req.Roles...)
	}

	user := User{
		ID:        maxID + 1,
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
		Roles:     roles,
		Status:    StatusInvited,
		Active:    true,
		Preferences: &Preferences{
			Theme:    ThemeSystem,
			Timezone: req.Timezone,
		},
	}

	s.users = append(s.users, user.clone())
	return user, nil
}
