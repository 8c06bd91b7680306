package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harrisonrobin/taskweb/pkg/taskwarrior"
)

type addRequest struct {
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Project     string `json:"project"`
}

type messageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps adapter errors onto HTTP status codes.
func statusFor(err error) int {
	var toolErr *taskwarrior.ToolError
	switch {
	case errors.Is(err, taskwarrior.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, taskwarrior.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, taskwarrior.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &toolErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("api request failed", "status", status, "error", err)
	}
	writeJSON(w, status, messageResponse{Error: err.Error()})
}

// apiList handles GET /api/tasks. Unlike the page, it reports listing
// failures instead of returning an empty list.
func (s *Server) apiList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.tasks.ExportTasks(r.Context(), q.Get("filter"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filterFromValues(q).Apply(tasks))
}

// apiGet handles GET /api/tasks/{taskID}.
func (s *Server) apiGet(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid task id"})
		return
	}
	task, err := s.tasks.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// apiAdd handles POST /api/tasks.
func (s *Server) apiAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid request payload"})
		return
	}
	if err := s.tasks.AddTask(r.Context(), req.Description, req.Priority, req.Project); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "task added"})
}

// apiModify handles PATCH /api/tasks/{taskID}.
func (s *Server) apiModify(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid task id"})
		return
	}
	var m taskwarrior.Modification
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid request payload"})
		return
	}
	if err := s.tasks.ModifyTask(r.Context(), id, m); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "task updated"})
}

// apiComplete handles POST /api/tasks/{taskID}/done.
func (s *Server) apiComplete(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid task id"})
		return
	}
	if err := s.tasks.CompleteTask(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "task completed"})
}

// apiDelete handles DELETE /api/tasks/{taskID}.
func (s *Server) apiDelete(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Error: "invalid task id"})
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
