package tasks

import (
	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/optional"
)

// Task belongs to a user through UserID. The reference is not checked.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      int64   `json:"user_id"`
}

// Patch is a merge-patch. Description may be set to null to clear it; the
// other fields reject null.
type Patch struct {
	ID          optional.Field[int64]  `json:"id"`
	Title       optional.Field[string] `json:"title"`
	Description optional.Field[string] `json:"description"`
	Completed   optional.Field[bool]   `json:"completed"`
	UserID      optional.Field[int64]  `json:"user_id"`
}

func (p Patch) Validate() error {
	var errs []apperr.FieldError
	for _, f := range []struct {
		name string
		null bool
	}{
		{"id", p.ID.Null},
		{"title", p.Title.Null},
		{"completed", p.Completed.Null},
		{"user_id", p.UserID.Null},
	} {
		if f.null {
			errs = append(errs, apperr.FieldError{Field: f.name, Message: "must not be null"})
		}
	}
	if len(errs) > 0 {
		return apperr.Validation(errs...)
	}
	return nil
}

func (p Patch) Apply(t Task) Task {
	if p.ID.Present() {
		t.ID = p.ID.Value
	}
	if p.Title.Present() {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.Completed.Present() {
		t.Completed = p.Completed.Value
	}
	if p.UserID.Present() {
		t.UserID = p.UserID.Value
	}
	return t
}

func Seed() []Task {
	groceries := "Milk, eggs, bread"
	return []Task{
		{ID: 1, Title: "Buy groceries", Description: &groceries, UserID: 1},
		{ID: 2, Title: "Study FastAPI", Completed: true, UserID: 2},
	}
}
