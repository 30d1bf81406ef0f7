package tasks

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/s1natex/users-tasks-api/internal/apperr"
	"github.com/s1natex/users-tasks-api/internal/httpx"
	"github.com/s1natex/users-tasks-api/internal/optional"
)

type taskRequest struct {
	ID          optional.Field[int64]  `json:"id"`
	Title       optional.Field[string] `json:"title"`
	Description optional.Field[string] `json:"description"`
	Completed   optional.Field[bool]   `json:"completed"`
	UserID      optional.Field[int64]  `json:"user_id"`
}

func (req taskRequest) task() (Task, error) {
	var missing []string
	if !req.ID.Present() {
		missing = append(missing, "id")
	}
	if !req.Title.Present() {
		missing = append(missing, "title")
	}
	if !req.UserID.Present() {
		missing = append(missing, "user_id")
	}
	if len(missing) > 0 {
		return Task{}, apperr.Validation(httpx.Required(missing...)...)
	}
	if req.Completed.Null {
		return Task{}, apperr.Validation(apperr.FieldError{Field: "completed", Message: "must not be null"})
	}
	return Task{
		ID:          req.ID.Value,
		Title:       req.Title.Value,
		Description: req.Description.Ptr(),
		Completed:   req.Completed.Value,
		UserID:      req.UserID.Value,
	}, nil
}

func RegisterRoutes(r chi.Router, repo Repository) {
	r.Get("/tasks", listTasks(repo))
	r.Post("/tasks", createTask(repo))
	r.Put("/tasks/{id}", replaceTask(repo))
	r.Patch("/tasks/{id}", patchTask(repo))
	r.Delete("/tasks/{id}", deleteTask(repo))
}

func listTasks(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := repo.List(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, tasks)
	}
}

func createTask(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := decodeTask(w, r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		created, err := repo.Create(r.Context(), t)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, created)
	}
}

func replaceTask(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		t, err := decodeTask(w, r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		replaced, err := repo.Replace(r.Context(), id, t)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, replaced)
	}
}

func patchTask(repo Repository) http.HandlerFunc {
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

func deleteTask(repo Repository) http.HandlerFunc {
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
			Message: fmt.Sprintf("Task %d deleted successfully", id),
		})
	}
}

func decodeTask(w http.ResponseWriter, r *http.Request) (Task, error) {
	var req taskRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		return Task{}, err
	}
	return req.task()
}
