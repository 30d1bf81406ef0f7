package users

import (
	"context"
	"fmt"

	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/collection"
)

var (
	ErrNotFound = apperr.NotFound("User not found")
	ErrIDExists = apperr.Conflict("User ID already exists")
)

// Repository is the user collection. Lookups by id are first-match-wins.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (User, error)
	Replace(ctx context.Context, id int64, u User) (User, error)
	Patch(ctx context.Context, id int64, p Patch) (User, error)
	Delete(ctx context.Context, id int64) error
}

type InMemoryRepo struct {
	users *collection.Collection[User]
}

func NewInMemoryRepo(seed ...User) *InMemoryRepo {
	return &InMemoryRepo{
		users: collection.New(func(u User) int64 { return u.ID }, seed...),
	}
}

func (r *InMemoryRepo) List(context.Context) ([]User, error) {
	return r.users.All(), nil
}

func (r *InMemoryRepo) Create(_ context.Context, u User) (User, error) {
	if !r.users.AppendUnique(u) {
		return User{}, ErrIDExists
	}
	return u, nil
}

func (r *InMemoryRepo) Replace(_ context.Context, id int64, u User) (User, error) {
	if _, ok := r.users.Replace(id, u); !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *InMemoryRepo) Patch(_ context.Context, id int64, p Patch) (User, error) {
	if err := p.Validate(); err != nil {
		return User{}, err
	}
	updated, ok := r.users.Update(id, p.Apply)
	if !ok {
		return User{}, ErrNotFound
	}
	return updated, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users.Remove(id); !ok {
		return ErrNotFound
	}
	return nil
}

// SeedRepository inserts Seed() when repo holds no users.
func SeedRepository(ctx context.Context, repo Repository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, u := range Seed() {
		if _, err := repo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}
	return nil
}
