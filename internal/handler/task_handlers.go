package handler

import (
	"net/http"

	"github.com/mtlprog/taskflow/internal/engine"
	"github.com/mtlprog/taskflow/internal/handler/dto"
	"github.com/mtlprog/taskflow/internal/service"
)

// handleListTasks lists tasks with filters and sorting.
// @Summary List tasks
// @Description List tasks matching every given filter, sorted, with due-date labels and category colors
// @Tags tasks
// @Produce json
// @Param status query string false "all (default), active, completed"
// @Param priority query string false "all (default), low, medium, high"
// @Param category query string false "all (default) or an exact category name"
// @Param search query string false "Case-insensitive substring of title or description"
// @Param sort query string false "created (default), priority, dueDate, alphabetical"
// @Success 200 {object} dto.TasksListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	q := dto.ListTasksQuery{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Category: query.Get("category"),
		Search:   query.Get("search"),
		Sort:     query.Get("sort"),
	}

	views, err := h.taskService.ListTasks(ctx, service.ListQuery{
		Criteria: q.Criteria(),
		Sort:     engine.SortKey(q.Sort),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTasksListResponse(views))
}

// handleCreateTask creates a new task.
// @Summary Create a new task
// @Description Creates a new incomplete task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	draft, err := req.ToDraft(h.location)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	task, err := h.taskService.CreateTask(ctx, draft)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	view, err := h.taskService.Decorate(ctx, task)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(view))
}

// handleGetTask retrieves a single task.
// @Summary Get task details
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	view, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(view))
}

// handleUpdateTask applies a partial update to a task.
// @Summary Update a task
// @Description Partially updates a task. Setting completed stamps or clears completed_at.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch, err := req.ToPatch(h.location)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	task, err := h.taskService.UpdateTask(ctx, id, patch)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	view, err := h.taskService.Decorate(ctx, task)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(view))
}

// handleDeleteTask deletes a task.
// @Summary Delete a task
// @Tags tasks
// @Param id path int true "Task ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleClearCompleted deletes every completed task.
// @Summary Clear completed tasks
// @Tags tasks
// @Produce json
// @Success 200 {object} dto.ClearCompletedResponse
// @Security BearerAuth
// @Router /tasks/completed [delete]
func (h *Handler) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.taskService.ClearCompleted(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ClearCompletedResponse{Deleted: n})
}
