package users

import (
	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/optional"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Patch is a merge-patch: only fields that are set overwrite the stored user.
type Patch struct {
	ID    optional.Field[int64]  `json:"id"`
	Name  optional.Field[string] `json:"name"`
	Email optional.Field[string] `json:"email"`
}

// Validate rejects explicit nulls; none of the user fields are nullable.
func (p Patch) Validate() error {
	var errs []apperr.FieldError
	for _, f := range []struct {
		name string
		null bool
	}{
		{"id", p.ID.Null},
		{"name", p.Name.Null},
		{"email", p.Email.Null},
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

// Apply returns u with the set fields of p overwritten.
func (p Patch) Apply(u User) User {
	if p.ID.Present() {
		u.ID = p.ID.Value
	}
	if p.Name.Present() {
		u.Name = p.Name.Value
	}
	if p.Email.Present() {
		u.Email = p.Email.Value
	}
	return u
}

// Seed returns the records every fresh store starts with.
func Seed() []User {
	return []User{
		{ID: 1, Name: "Andrew", Email: "aharp@ohio.edu"},
		{ID: 2, Name: "Bob", Email: "bob@example.com"},
	}
}
