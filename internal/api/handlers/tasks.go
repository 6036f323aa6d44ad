package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/glee/internal/domain/tasks"
)

type TasksHandler struct {
	Service *tasks.Service
	Env     string
}

func NewTasksHandler(service *tasks.Service, env string) *TasksHandler {
	return &TasksHandler{Service: service, Env: env}
}

type createTaskRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Priority   string `json:"priority" validate:"required,oneof=hot warm cold"`
	Status     string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID *int64 `json:"assigneeId" validate:"omitempty,gte=0"`
	EventID    *int64 `json:"eventId" validate:"omitempty,gte=0"`
	MeetingID  *int64 `json:"meetingId" validate:"omitempty,gte=0"`
	DueDate    *Date  `json:"dueDate"`
}

type updateTaskRequest struct {
	Title      *string `json:"title" validate:"omitempty,max=200"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=hot warm cold"`
	Status     *string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID *int64  `json:"assigneeId" validate:"omitempty,gte=0"`
	EventID    *int64  `json:"eventId" validate:"omitempty,gte=0"`
	MeetingID  *int64  `json:"meetingId" validate:"omitempty,gte=0"`
	DueDate    *Date   `json:"dueDate"`
}

// List supports ?eventId=, ?meetingId= and ?status= filters.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter tasks.Filter
	var err error
	if filter.EventID, err = queryID(r, "eventId"); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	if filter.MeetingID, err = queryID(r, "meetingId"); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	filter.Status = tasks.Status(r.URL.Query().Get("status"))

	items, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	task, err := h.Service.Create(r.Context(), tasks.CreateParams{
		Title:      req.Title,
		Priority:   tasks.Priority(req.Priority),
		Status:     tasks.Status(req.Status),
		AssigneeID: req.AssigneeID,
		EventID:    req.EventID,
		MeetingID:  req.MeetingID,
		DueDate:    timePtr(req.DueDate),
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}

	params := tasks.UpdateParams{
		Title:      req.Title,
		AssigneeID: req.AssigneeID,
		EventID:    req.EventID,
		MeetingID:  req.MeetingID,
		DueDate:    timePtr(req.DueDate),
	}
	if req.Priority != nil {
		priority := tasks.Priority(*req.Priority)
		params.Priority = &priority
	}
	if req.Status != nil {
		status := tasks.Status(*req.Status)
		params.Status = &status
	}

	task, err := h.Service.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
