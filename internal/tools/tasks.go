package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasknest/tasknest/internal/store"
)

// TaskTools binds the five task-management tools to the store.
type TaskTools struct {
	store *store.Store
}

// RegisterTaskTools registers the complete task tool catalog. Called once at
// startup; the registry is immutable afterwards.
func RegisterTaskTools(reg *Registry, st *store.Store) error {
	t := &TaskTools{store: st}

	specs := []Spec{
		{
			Name:        "add_task",
			Description: "Create a new task for the user. Use this when the user wants to add, create, or remember something as a task.",
			Params: []Param{
				{Name: "title", Type: TypeString, Required: true, Description: "The title or name of the task to create"},
				{Name: "description", Type: TypeString, Required: false, Description: "Optional description with more details about the task"},
			},
			Handler: t.addTask,
		},
		{
			Name:        "list_tasks",
			Description: "List the user's tasks. Use this when the user wants to see, view, show, or check their tasks.",
			Params: []Param{
				{Name: "status", Type: TypeString, Required: false, Description: "Filter tasks by status: 'all' (default), 'pending' (incomplete), or 'completed' (done)"},
			},
			Handler: t.listTasks,
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as completed. Use this when the user says they finished, completed, or done with a task.",
			Params: []Param{
				{Name: "task_id", Type: TypeInteger, Required: true, Description: "The ID number of the task to mark as complete"},
			},
			Handler: t.completeTask,
		},
		{
			Name:        "delete_task",
			Description: "Delete a task permanently. Use this when the user wants to remove, delete, or cancel a task.",
			Params: []Param{
				{Name: "task_id", Type: TypeInteger, Required: true, Description: "The ID number of the task to delete"},
			},
			Handler: t.deleteTask,
		},
		{
			Name:        "update_task",
			Description: "Update a task's title or description. Use this when the user wants to change, edit, rename, or modify a task.",
			Params: []Param{
				{Name: "task_id", Type: TypeInteger, Required: true, Description: "The ID number of the task to update"},
				{Name: "title", Type: TypeString, Required: false, Description: "The new title for the task"},
				{Name: "description", Type: TypeString, Required: false, Description: "The new description for the task"},
			},
			Handler: t.updateTask,
		},
	}

	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

func (t *TaskTools) addTask(ctx context.Context, args map[string]any) Result {
	userID := args["user_id"].(string)
	title := args["title"].(string)
	description, _ := args["description"].(string)

	task, err := t.store.CreateTask(ctx, userID, title, description)
	if err != nil {
		return Failf("%v", err)
	}

	slog.Info("task created", "task_id", task.ID, "user", userID)

	return Result{
		Status:  "created",
		Message: fmt.Sprintf("Task '%s' created successfully! (ID: %d)", task.Title, task.ID),
		Fields: map[string]any{
			"task_id": task.ID,
			"title":   task.Title,
		},
	}
}

func (t *TaskTools) listTasks(ctx context.Context, args map[string]any) Result {
	userID := args["user_id"].(string)
	statusArg, _ := args["status"].(string)
	filter, err := parseFilter(statusArg)
	if err != nil {
		return Failf("%v", err)
	}

	tasks, err := t.store.ListTasks(ctx, userID, filter)
	if err != nil {
		return Failf("%v", err)
	}

	list := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, map[string]any{
			"id":          task.ID,
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"created_at":  task.CreatedAt.Format(time.RFC3339),
		})
	}

	slog.Info("tasks listed", "count", len(list), "filter", filter, "user", userID)

	return Result{
		Status: "success",
		Fields: map[string]any{
			"tasks":  list,
			"count":  len(list),
			"filter": string(filter),
		},
	}
}

func (t *TaskTools) completeTask(ctx context.Context, args map[string]any) Result {
	userID := args["user_id"].(string)
	taskID := args["task_id"].(int64)

	task, err := t.store.CompleteTask(ctx, userID, taskID)
	if errors.Is(err, store.ErrTaskNotFound) {
		return taskNotFound(taskID)
	}
	if err != nil {
		return Failf("%v", err)
	}

	slog.Info("task completed", "task_id", taskID, "user", userID)

	return Result{
		Status:  "completed",
		Message: fmt.Sprintf("Task '%s' marked as complete! Great job!", task.Title),
		Fields: map[string]any{
			"task_id":   task.ID,
			"title":     task.Title,
			"completed": true,
		},
	}
}

func (t *TaskTools) deleteTask(ctx context.Context, args map[string]any) Result {
	userID := args["user_id"].(string)
	taskID := args["task_id"].(int64)

	task, err := t.store.DeleteTask(ctx, userID, taskID)
	if errors.Is(err, store.ErrTaskNotFound) {
		return taskNotFound(taskID)
	}
	if err != nil {
		return Failf("%v", err)
	}

	slog.Info("task deleted", "task_id", taskID, "user", userID)

	return Result{
		Status:  "deleted",
		Message: fmt.Sprintf("Task '%s' has been deleted.", task.Title),
		Fields: map[string]any{
			"task_id": task.ID,
			"title":   task.Title,
		},
	}
}

func (t *TaskTools) updateTask(ctx context.Context, args map[string]any) Result {
	userID := args["user_id"].(string)
	taskID := args["task_id"].(int64)

	var title, description *string
	if v, ok := args["title"].(string); ok {
		title = &v
	}
	if v, ok := args["description"].(string); ok {
		description = &v
	}
	if title == nil && description == nil {
		return Failf("at least title or description must be provided")
	}

	task, err := t.store.UpdateTask(ctx, userID, taskID, title, description)
	if errors.Is(err, store.ErrTaskNotFound) {
		return taskNotFound(taskID)
	}
	if err != nil {
		return Failf("%v", err)
	}

	slog.Info("task updated", "task_id", taskID, "user", userID)

	return Result{
		Status:  "updated",
		Message: fmt.Sprintf("Task updated to '%s'.", task.Title),
		Fields: map[string]any{
			"task_id": task.ID,
			"title":   task.Title,
		},
	}
}

func parseFilter(status string) (store.TaskFilter, error) {
	switch store.TaskFilter(strings.ToLower(status)) {
	case "", store.FilterAll:
		return store.FilterAll, nil
	case store.FilterPending:
		return store.FilterPending, nil
	case store.FilterCompleted:
		return store.FilterCompleted, nil
	default:
		return "", fmt.Errorf("status must be 'all', 'pending', or 'completed'")
	}
}

func taskNotFound(taskID int64) Result {
	return Result{
		Status:  StatusFailed,
		Error:   fmt.Sprintf("Task %d not found", taskID),
		Message: fmt.Sprintf("Task %d not found. Use 'show my tasks' to see available tasks.", taskID),
	}
}
