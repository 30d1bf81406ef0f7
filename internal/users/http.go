package users

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/httpx"
	"github.com/s1natex/users-tasks-api/internal/optional"
)

// userRequest is the body of POST and PUT. Unknown keys are ignored.
type userRequest struct {
	ID    optional.Field[int64]  `json:"id"`
	Name  optional.Field[string] `json:"name"`
	Email optional.Field[string] `json:"email"`
}

func (req userRequest) user() (User, error) {
	var missing []string
	if !req.ID.Present() {
		missing = append(missing, "id")
	}
	if !req.Name.Present() {
		missing = append(missing, "name")
	}
	if !req.Email.Present() {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return User{}, apperr.Validation(httpx.Required(missing...)...)
	}
	return User{ID: req.ID.Value, Name: req.Name.Value, Email: req.Email.Value}, nil
}

func RegisterRoutes(r chi.Router, repo Repository) {
	r.Get("/users", listUsers(repo))
	r.Post("/users", createUser(repo))
	r.Put("/users/{id}", replaceUser(repo))
	r.Patch("/users/{id}", patchUser(repo))
	r.Delete("/users/{id}", deleteUser(repo))
}

func listUsers(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := repo.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, users)
	}
}

func createUser(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := decodeUser(w, r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		created, err := repo.Create(r.Context(), u)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, created)
	}
}

func replaceUser(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		u, err := decodeUser(w, r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		replaced, err := repo.Replace(r.Context(), id, u)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, replaced)
	}
}

func patchUser(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var p Patch
		if err := httpx.DecodeJSONStrict(w, r, &p); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		patched, err := repo.Patch(r.Context(), id, p)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, patched)
	}
}

func deleteUser(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := repo.Delete(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, httpx.Message{
			Message: fmt.Sprintf("User %d deleted successfully", id),
		})
	}
}

func decodeUser(w http.ResponseWriter, r *http.Request) (User, error) {
	var req userRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		return User{}, err
	}
	return req.user()
}
