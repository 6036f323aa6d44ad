package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
)

type EventsHandler struct {
	Service  *events.Service
	Expenses *expenses.Service
	Env      string
}

func NewEventsHandler(service *events.Service, expenseService *expenses.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Expenses: expenseService, Env: env}
}

type createEventRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    string  `json:"description" validate:"max=10000"`
	Date           *Date   `json:"date" validate:"required"`
	Location       *string `json:"location" validate:"omitempty,max=200"`
	Status         string  `json:"status" validate:"omitempty,oneof=planning advertised completed"`
	PosterURL      *string `json:"posterUrl"`
	SlackMessageTS *string `json:"slackMessageTs"`
	Budget         int     `json:"budget" validate:"gte=0"`
	MaxAttendees   *int    `json:"maxAttendees" validate:"omitempty,gte=0"`
}

type updateEventRequest struct {
	Title          *string `json:"title" validate:"omitempty,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=10000"`
	Date           *Date   `json:"date"`
	Location       *string `json:"location" validate:"omitempty,max=200"`
	Status         *string `json:"status" validate:"omitempty,oneof=planning advertised completed"`
	PosterURL      *string `json:"posterUrl"`
	SlackMessageTS *string `json:"slackMessageTs"`
	Budget         *int    `json:"budget" validate:"omitempty,gte=0"`
	MaxAttendees   *int    `json:"maxAttendees" validate:"omitempty,gte=0"`
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	event, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}

	event, err := h.Service.Create(r.Context(), events.CreateParams{
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date.Time,
		Location:       req.Location,
		Status:         events.Status(req.Status),
		PosterURL:      req.PosterURL,
		SlackMessageTS: req.SlackMessageTS,
		Budget:         req.Budget,
		MaxAttendees:   req.MaxAttendees,
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}

	params := events.UpdateParams{
		Title:          req.Title,
		Description:    req.Description,
		Date:           timePtr(req.Date),
		Location:       req.Location,
		PosterURL:      req.PosterURL,
		SlackMessageTS: req.SlackMessageTS,
		Budget:         req.Budget,
		MaxAttendees:   req.MaxAttendees,
	}
	if req.Status != nil {
		status := events.Status(*req.Status)
		params.Status = &status
	}

	event, err := h.Service.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Budget reports planned budget against recorded expenses.
func (h *EventsHandler) Budget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	summary, err := h.Expenses.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
