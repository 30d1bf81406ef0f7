package tasks

import (
	"context"
	"fmt"

	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/collection"
)

var ErrNotFound = apperr.NotFound("Task not found")

// Repository is the task collection. Create does not check for duplicate
// ids, unlike the user collection.
type Repository interface {
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Replace(ctx context.Context, id int64, t Task) (Task, error)
	Patch(ctx context.Context, id int64, p Patch) (Task, error)
	Delete(ctx context.Context, id int64) error
}

type InMemoryRepo struct {
	tasks *collection.Collection[Task]
}

func NewInMemoryRepo(seed ...Task) *InMemoryRepo {
	return &InMemoryRepo{
		tasks: collection.New(func(t Task) int64 { return t.ID }, seed...),
	}
}

func (r *InMemoryRepo) List(context.Context) ([]Task, error) {
	return r.tasks.All(), nil
}

func (r *InMemoryRepo) Create(_ context.Context, t Task) (Task, error) {
	r.tasks.Append(t)
	return t, nil
}

func (r *InMemoryRepo) Replace(_ context.Context, id int64, t Task) (Task, error) {
	if _, ok := r.tasks.Replace(id, t); !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (r *InMemoryRepo) Patch(_ context.Context, id int64, p Patch) (Task, error) {
	if err := p.Validate(); err != nil {
		return Task{}, err
	}
	updated, ok := r.tasks.Update(id, p.Apply)
	if !ok {
		return Task{}, ErrNotFound
	}
	return updated, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tasks.Remove(id); !ok {
		return ErrNotFound
	}
	return nil
}

// SeedRepository inserts Seed() when repo holds no tasks.
func SeedRepository(ctx context.Context, repo Repository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, t := range Seed() {
		if _, err := repo.Create(ctx, t); err != nil {
			return fmt.Errorf("seed task %d: %w", t.ID, err)
		}
	}
	return nil
}
