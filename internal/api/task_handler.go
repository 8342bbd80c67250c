package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/St1cky1/team-dashboard/internal/entity"
	"github.com/St1cky1/team-dashboard/internal/usecase"
)

type TaskHandler struct {
	taskService *usecase.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *usecase.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ParseFilter разбирает query-параметры дашборда. Пустое значение или "all"
// означает "без фильтра".
func ParseFilter(q map[string][]string) (entity.FilterSpec, error) {
	get := func(key string) string {
		if v := q[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	orAll := func(v string) string {
		if v == "" {
			return entity.FilterAll
		}
		return v
	}

	f := entity.FilterSpec{
		AssignedTo: orAll(get("assignedTo")),
		Client:     orAll(get("client")),
		Status:     entity.FilterAll,
		Search:     get("search"),
		DateRange:  entity.ParseDateRange(get("dateRange")),
	}

	if status := get("status"); status != "" && !strings.EqualFold(status, entity.FilterAll) {
		parsed, err := entity.ParseTaskStatus(status)
		if err != nil {
			return f, err
		}
		f.Status = string(parsed)
	}

	var err error
	if f.DateFrom, err = entity.ParseDate(get("dateFrom")); err != nil {
		return f, err
	}
	if f.DateTo, err = entity.ParseDate(get("dateTo")); err != nil {
		return f, err
	}
	return f, nil
}

// ParseSort - по умолчанию дедлайн по возрастанию
func ParseSort(q map[string][]string) entity.SortSpec {
	s := entity.DefaultSort()
	if v := q["sortBy"]; len(v) > 0 && v[0] != "" {
		s.Field = entity.SortField(v[0])
	}
	if v := q["direction"]; len(v) > 0 && strings.EqualFold(v[0], string(entity.SortDesc)) {
		s.Direction = entity.SortDesc
	}
	return s
}

func (h *TaskHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, entity.ErrNoFieldsToUpdate):
		writeError(w, http.StatusBadRequest, "no fields to update")
	case errors.Is(err, entity.ErrInvalidTaskData),
		errors.Is(err, entity.ErrUnknownStatus),
		errors.Is(err, entity.ErrUnknownPriority),
		errors.Is(err, entity.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("task request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ListTasks - GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := ParseFilter(q)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	tasks, err := h.taskService.QueryTasks(r.Context(), f, ParseSort(q))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.Statistics(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *TaskHandler) TeamBreakdown(w http.ResponseWriter, r *http.Request) {
	team, err := h.taskService.TeamBreakdown(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *TaskHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.taskService.FilterOptions(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) TaskHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.taskService.TaskHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []entity.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req entity.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
