// Package userdir is an in-memory user directory exercising the mirra
// registry: a health check plus list/get/create operations over a
// mutex-guarded store.
package userdir

import (
	"context"
	"time"

	"github.com/mirra-dev/mirra"
)

const region = "us-east-1"

// Register adds the directory's routes to the builder.
func Register(b *mirra.Builder[*Store]) {
	mirra.Route(b, "health.get", getHealth,
		mirra.WithReadonly(),
		mirra.WithTag("health"),
		mirra.WithDescription("Get server health metadata"),
	)
	mirra.Route(b, "users.list", listUsers,
		mirra.WithReadonly(),
		mirra.WithTag("users"),
		mirra.WithDescription("List all users with profile metadata"),
	)
	mirra.Route(b, "user.get", getUser,
		mirra.WithTag("users"),
		mirra.WithDescription("Fetch a single user by id"),
		mirra.WithError[*Error](Statuses()),
	)
	mirra.Route(b, "user.create", createUser,
		mirra.WithTag("users"),
		mirra.WithDescription("Create a new user with validation"),
		mirra.WithError[*Error](Statuses()),
	)
}

func getHealth(_ context.Context, _ *Store, _ mirra.Empty, _ mirra.Empty) (HealthStatus, error) {
	r := region
	return HealthStatus{
		Status:    "ok",
		CheckedAt: time.Now().UTC(),
		Region:    &r,
	}, nil
}

func listUsers(_ context.Context, s *Store, _ mirra.Empty, _ mirra.Empty) ([]User, error) {
	return s.List(), nil
}

func getUser(_ context.Context, s *Store, req GetUserRequest, _ mirra.Empty) (User, error) {
	return s.Get(req.ID)
}

func createUser(_ context.Context, s *Store, req CreateUserRequest, _ mirra.Empty) (User, error) {
	return s.Create(req)
}
