package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tasknest/tasknest/internal/store"
)

type taskView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toTaskView(t store.Task) taskView {
	return taskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	task, err := s.st.CreateTask(r.Context(), userID, req.Title, strings.TrimSpace(req.Description))
	if err != nil {
		slog.Error("create task failed", "user", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not create task")
		return
	}
	writeJSON(w, http.StatusCreated, toTaskView(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	filter := store.TaskFilter(strings.ToLower(r.URL.Query().Get("status")))
	if filter == "" {
		filter = store.FilterAll
	}
	switch filter {
	case store.FilterAll, store.FilterPending, store.FilterCompleted:
	default:
		writeError(w, http.StatusBadRequest, "status must be one of all, pending, completed")
		return
	}

	tasks, err := s.st.ListTasks(r.Context(), userID, filter)
	if err != nil {
		slog.Error("list tasks failed", "user", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not list tasks")
		return
	}
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskView(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out, "count": len(out)})
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	taskID, err := strconv.ParseInt(r.PathValue("taskID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == nil && req.Description == nil && req.Completed == nil {
		writeError(w, http.StatusBadRequest, "at least one of title, description, completed is required")
		return
	}

	var task store.Task
	if req.Title != nil || req.Description != nil {
		task, err = s.st.UpdateTask(r.Context(), userID, taskID, req.Title, req.Description)
	}
	if err == nil && req.Completed != nil && *req.Completed {
		task, err = s.st.CompleteTask(r.Context(), userID, taskID)
	}
	if err == nil && task.ID == 0 {
		// Only completed:false was sent. There is no un-complete; just
		// echo the current row.
		task, err = s.st.GetTask(r.Context(), userID, taskID)
	}
	if errors.Is(err, store.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		slog.Error("update task failed", "user", userID, "task", taskID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not update task")
		return
	}
	writeJSON(w, http.StatusOK, toTaskView(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	taskID, err := strconv.ParseInt(r.PathValue("taskID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := s.st.DeleteTask(r.Context(), userID, taskID)
	if errors.Is(err, store.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		slog.Error("delete task failed", "user", userID, "task", taskID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not delete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "task": toTaskView(task)})
}
