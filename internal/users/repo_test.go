package users

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/optional"
)

// runRepositoryContract checks behaviour every backend must share. newRepo
// returns a repository already holding Seed().
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	mustList := func(t *testing.T, repo Repository) []User {
		t.Helper()
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		return list
	}

	t.Run("ListReturnsSeedInOrder", func(t *testing.T) {
		repo := newRepo(t)
		if got := mustList(t, repo); !reflect.DeepEqual(got, Seed()) {
			t.Fatalf("list = %+v, want %+v", got, Seed())
		}
	})

	t.Run("CreateThenListContainsOnce", func(t *testing.T) {
		repo := newRepo(t)
		u := User{ID: 3, Name: "Carol", Email: "carol@example.com"}

		created, err := repo.Create(ctx, u)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created != u {
			t.Fatalf("created = %+v, want %+v", created, u)
		}

		count := 0
		list := mustList(t, repo)
		for _, got := range list {
			if got == u {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("user appears %d times, want 1", count)
		}
		if list[len(list)-1] != u {
			t.Fatalf("new user should be appended last: %+v", list)
		}
	})

	t.Run("CreateDuplicateConflicts", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, User{ID: 1, Name: "Imposter", Email: "x@y.com"})
		if !errors.Is(err, apperr.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
		if err.Error() != "User ID already exists" {
			t.Fatalf("message = %q", err.Error())
		}
		if got := mustList(t, repo); !reflect.DeepEqual(got, Seed()) {
			t.Fatalf("sequence changed: %+v", got)
		}
	})

	t.Run("ReplaceOverwritesInPlace", func(t *testing.T) {
		repo := newRepo(t)
		want := User{ID: 1, Name: "Andy", Email: "andy@example.com"}

		got, err := repo.Replace(ctx, 1, want)
		if err != nil {
			t.Fatalf("replace: %v", err)
		}
		if got != want {
			t.Fatalf("replace = %+v", got)
		}
		list := mustList(t, repo)
		if list[0] != want || list[1] != Seed()[1] {
			t.Fatalf("list = %+v", list)
		}
	})

	t.Run("ReplaceMissingNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Replace(ctx, 99, User{ID: 99, Name: "Ghost", Email: "g@example.com"})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if got := mustList(t, repo); !reflect.DeepEqual(got, Seed()) {
			t.Fatalf("sequence changed: %+v", got)
		}
	})

	t.Run("ReplaceAllowsIDDrift", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.Replace(ctx, 1, User{ID: 10, Name: "Andrew", Email: "aharp@ohio.edu"}); err != nil {
			t.Fatalf("replace: %v", err)
		}
		list := mustList(t, repo)
		if list[0].ID != 10 {
			t.Fatalf("id did not drift: %+v", list)
		}
		if _, err := repo.Replace(ctx, 1, User{ID: 1}); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("old id should be gone, got %v", err)
		}
	})

	t.Run("PatchChangesOnlySuppliedFields", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.Patch(ctx, 1, Patch{Email: optional.Of("x@y.com")})
		if err != nil {
			t.Fatalf("patch: %v", err)
		}
		want := User{ID: 1, Name: "Andrew", Email: "x@y.com"}
		if got != want {
			t.Fatalf("patch = %+v, want %+v", got, want)
		}
		if list := mustList(t, repo); list[0] != want {
			t.Fatalf("stored = %+v", list[0])
		}
	})

	t.Run("PatchEmptyKeepsRecord", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.Patch(ctx, 2, Patch{})
		if err != nil {
			t.Fatalf("patch: %v", err)
		}
		if got != Seed()[1] {
			t.Fatalf("patch = %+v", got)
		}
	})

	t.Run("PatchMissingNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Patch(ctx, 99, Patch{Name: optional.Of("nobody")})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("PatchNullRejected", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Patch(ctx, 1, Patch{Name: optional.Null[string]()})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if got := mustList(t, repo); !reflect.DeepEqual(got, Seed()) {
			t.Fatalf("sequence changed: %+v", got)
		}
	})

	t.Run("DeleteRemovesExactlyOne", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Delete(ctx, 1); err != nil {
			t.Fatalf("delete: %v", err)
		}
		list := mustList(t, repo)
		if len(list) != 1 || list[0] != Seed()[1] {
			t.Fatalf("list = %+v", list)
		}
		if err := repo.Delete(ctx, 1); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("second delete: expected not found, got %v", err)
		}
	})

	t.Run("FirstMatchWinsOnDuplicateIDs", func(t *testing.T) {
		repo := newRepo(t)
		// Drift Bob onto id 1 so two users share it.
		if _, err := repo.Replace(ctx, 2, User{ID: 1, Name: "Bob", Email: "bob@example.com"}); err != nil {
			t.Fatalf("replace: %v", err)
		}
		patched, err := repo.Patch(ctx, 1, Patch{Name: optional.Of("Drew")})
		if err != nil {
			t.Fatalf("patch: %v", err)
		}
		if patched.Email != "aharp@ohio.edu" {
			t.Fatalf("patched the wrong user: %+v", patched)
		}
		if err := repo.Delete(ctx, 1); err != nil {
			t.Fatalf("delete: %v", err)
		}
		list := mustList(t, repo)
		if len(list) != 1 || list[0].Name != "Bob" {
			t.Fatalf("list = %+v", list)
		}
	})
}

func newSeededInMemoryRepo(t *testing.T) Repository {
	t.Helper()
	repo := NewInMemoryRepo()
	if err := SeedRepository(context.Background(), repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return repo
}

func TestInMemoryRepo(t *testing.T) {
	runRepositoryContract(t, newSeededInMemoryRepo)
}

func TestSeedRepository_SkipsNonEmpty(t *testing.T) {
	repo := NewInMemoryRepo(User{ID: 7, Name: "Existing", Email: "e@example.com"})
	if err := SeedRepository(context.Background(), repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, _ := repo.List(context.Background())
	if len(list) != 1 || list[0].ID != 7 {
		t.Fatalf("seed should not touch a populated repo: %+v", list)
	}
}

func TestPatchApply(t *testing.T) {
	base := User{ID: 1, Name: "Andrew", Email: "aharp@ohio.edu"}
	cases := []struct {
		name  string
		patch Patch
		want  User
	}{
		{"empty", Patch{}, base},
		{"name", Patch{Name: optional.Of("Drew")}, User{ID: 1, Name: "Drew", Email: "aharp@ohio.edu"}},
		{"id", Patch{ID: optional.Of[int64](5)}, User{ID: 5, Name: "Andrew", Email: "aharp@ohio.edu"}},
		{"all", Patch{ID: optional.Of[int64](2), Name: optional.Of("B"), Email: optional.Of("b@b")}, User{ID: 2, Name: "B", Email: "b@b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.patch.Apply(base); got != tc.want {
				t.Fatalf("Apply = %+v, want %+v", got, tc.want)
			}
		})
	}
}
