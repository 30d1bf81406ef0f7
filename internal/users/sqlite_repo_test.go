package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/s1natex/users-tasks-api/internal/storage/sqlite"
)

func newTempSQLiteRepo(t *testing.T) Repository {
	t.Helper()
	dsn, err := sqlite.FileDSN(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("dsn error: %v", err)
	}
	db, err := sqlite.Open(dsn)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := sqlite.ApplyMigrations(ctx, db); err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	repo := NewSQLiteRepo(db)
	if err := SeedRepository(ctx, repo); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	return repo
}

func TestSQLiteRepo(t *testing.T) {
	runRepositoryContract(t, newTempSQLiteRepo)
}

func TestSQLiteRepo_EmptyListIsNotNil(t *testing.T) {
	repo := newTempSQLiteRepo(t)
	ctx := context.Background()
	for _, u := range Seed() {
		if err := repo.Delete(ctx, u.ID); err != nil {
			t.Fatalf("delete %d: %v", u.ID, err)
		}
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("list = %#v, want empty non-nil slice", list)
	}
}
