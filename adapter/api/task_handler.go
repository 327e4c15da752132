package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/commands"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/queries"
)

// TaskHandler exposes the task operations over HTTP.
type TaskHandler struct {
	createTask      *commands.CreateTaskHandler
	updateTask      *commands.UpdateTaskHandler
	deleteTask      *commands.DeleteTaskHandler
	reorderTasks    *commands.ReorderTasksHandler
	suggestSubtasks *commands.SuggestSubtasksHandler
	listTasks       *queries.ListTasksHandler
	getTask         *queries.GetTaskHandler
	logger          *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(
	createTask *commands.CreateTaskHandler,
	updateTask *commands.UpdateTaskHandler,
	deleteTask *commands.DeleteTaskHandler,
	reorderTasks *commands.ReorderTasksHandler,
	suggestSubtasks *commands.SuggestSubtasksHandler,
	listTasks *queries.ListTasksHandler,
	getTask *queries.GetTaskHandler,
	logger *slog.Logger,
) *TaskHandler {
	return &TaskHandler{
		createTask:      createTask,
		updateTask:      updateTask,
		deleteTask:      deleteTask,
		reorderTasks:    reorderTasks,
		suggestSubtasks: suggestSubtasks,
		listTasks:       listTasks,
		getTask:         getTask,
		logger:          logger,
	}
}

type subtaskRequest struct {
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

type createTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    string           `json:"priority"`
	DueDate     *time.Time       `json:"dueDate"`
	EndDate     *time.Time       `json:"endDate"`
	IsAllDay    bool             `json:"isAllDay"`
	Location    string           `json:"location"`
	Tags        []string         `json:"tags"`
	Subtasks    []subtaskRequest `json:"subtasks"`
	Recurrence  string           `json:"recurrence"`
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedUser(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.createTask.Handle(r.Context(), commands.CreateTaskCommand{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		EndDate:     req.EndDate,
		IsAllDay:    req.IsAllDay,
		Location:    req.Location,
		Tags:        req.Tags,
		Subtasks:    toSubtaskInputs(req.Subtasks),
		Recurrence:  req.Recurrence,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"task":      queries.ToTaskDTO(result.Task),
		"instances": result.Instances,
	})
}

// List handles GET /api/v1/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedUser(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	tasks, err := h.listTasks.Handle(r.Context(), queries.ListTasksQuery{OwnerID: ownerID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if tasks == nil {
		tasks = []queries.TaskDTO{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// Get handles GET /api/v1/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedUser(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeBadRequest(w, "invalid task id")
		return
	}

	dto, err := h.getTask.Handle(r.Context(), queries.GetTaskQuery{TaskID: taskID, OwnerID: ownerID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

type updateTaskRequest struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Priority     *string           `json:"priority"`
	DueDate      *time.Time        `json:"dueDate"`
	ClearDueDate bool              `json:"clearDueDate"`
	EndDate      *time.Time        `json:"endDate"`
	ClearEndDate bool              `json:"clearEndDate"`
	IsAllDay     *bool             `json:"isAllDay"`
	Location     *string           `json:"location"`
	Tags         *[]string         `json:"tags"`
	Subtasks     *[]subtaskRequest `json:"subtasks"`
	IsCompleted  *bool             `json:"isCompleted"`
}

// Update handles PATCH /api/v1/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedUser(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeBadRequest(w, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cmd := commands.UpdateTaskCommand{
		TaskID:       taskID,
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		EndDate:      req.EndDate,
		ClearEndDate: req.ClearEndDate,
		IsAllDay:     req.IsAllDay,
		Location:     req.Location,
		Tags:         req.Tags,
		IsCompleted:  req.IsCompleted,
	}
	if req.Subtasks != nil {
		inputs := toSubtaskInputs(*req.Subtasks)
		cmd.Subtasks = &inputs
	}

	updated, err := h.updateTask.Handle(r.Context(), cmd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, queries.ToTaskDTO(updated))
}

// Delete handles DELETE /api/v1/tasks/{taskID}. The optional scope query
// parameter selects single-instance or whole-series deletion.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedUser(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeBadRequest(w, "invalid task id")
		return
	}
	scope, err := commands.ParseDeleteScope(r.URL.Query().Get("scope"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.deleteTask.Handle(r.Context(), commands.DeleteTaskCommand{
		TaskID:  taskID,
		OwnerID: ownerID,
		Scope:   scope,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deletedIds": result.DeletedIDs})
}

type reorderRequest struct {
	TaskIDs []uuid.UUID `json:"taskIds"`
}

// Reorder handles PUT /api/v1/tasks/order.
func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedUser(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	err := h.reorderTasks.Handle(r.Context(), commands.ReorderTasksCommand{
		OwnerID:    ownerID,
		OrderedIDs: req.TaskIDs,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Breakdown handles POST /api/v1/tasks/{taskID}/breakdown.
func (h *TaskHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedUser(r)
	if !ok {
		writeUnauthorized(w, "not authenticated")
		return
	}
	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeBadRequest(w, "invalid task id")
		return
	}

	result, err := h.suggestSubtasks.Handle(r.Context(), commands.SuggestSubtasksCommand{
		TaskID:  taskID,
		OwnerID: ownerID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": result.Suggestions})
}

func toSubtaskInputs(reqs []subtaskRequest) []commands.SubtaskInput {
	if len(reqs) == 0 {
		return nil
	}
	inputs := make([]commands.SubtaskInput, len(reqs))
	for i, s := range reqs {
		inputs[i] = commands.SubtaskInput{Text: s.Text, IsCompleted: s.IsCompleted}
	}
	return inputs
}
