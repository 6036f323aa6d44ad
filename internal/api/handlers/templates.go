package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/glee/internal/domain/templates"
)

type TemplatesHandler struct {
	Service *templates.Service
	Env     string
}

func NewTemplatesHandler(service *templates.Service, env string) *TemplatesHandler {
	return &TemplatesHandler{Service: service, Env: env}
}

type createTemplateRequest struct {
	Name                string  `json:"name" validate:"required,max=120"`
	Title               string  `json:"title" validate:"required,max=200"`
	Description         string  `json:"description" validate:"max=10000"`
	Location            *string `json:"location" validate:"omitempty,max=200"`
	Budget              int     `json:"budget" validate:"gte=0"`
	MaxAttendees        *int    `json:"maxAttendees" validate:"omitempty,gte=0"`
	IsRecurring         bool    `json:"isRecurring"`
	RecurringType       *string `json:"recurringType" validate:"omitempty,oneof=weekly biweekly monthly"`
	RecurringDayOfWeek  *int    `json:"recurringDayOfWeek" validate:"omitempty,gte=0,lte=6"`
	RecurringDayOfMonth *int    `json:"recurringDayOfMonth" validate:"omitempty,gte=1,lte=31"`
}

type updateTemplateRequest struct {
	Name                *string `json:"name" validate:"omitempty,max=120"`
	Title               *string `json:"title" validate:"omitempty,max=200"`
	Description         *string `json:"description" validate:"omitempty,max=10000"`
	Location            *string `json:"location" validate:"omitempty,max=200"`
	Budget              *int    `json:"budget" validate:"omitempty,gte=0"`
	MaxAttendees        *int    `json:"maxAttendees" validate:"omitempty,gte=0"`
	IsRecurring         *bool   `json:"isRecurring"`
	RecurringType       *string `json:"recurringType" validate:"omitempty,oneof=weekly biweekly monthly"`
	RecurringDayOfWeek  *int    `json:"recurringDayOfWeek" validate:"omitempty,gte=0,lte=6"`
	RecurringDayOfMonth *int    `json:"recurringDayOfMonth" validate:"omitempty,gte=1,lte=31"`
}

type createEventFromTemplateRequest struct {
	Date *Date `json:"date"`
}

func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *TemplatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	tmpl, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *TemplatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	tmpl, err := h.Service.Create(r.Context(), templates.CreateParams{
		Name:                req.Name,
		Title:               req.Title,
		Description:         req.Description,
		Location:            req.Location,
		Budget:              req.Budget,
		MaxAttendees:        req.MaxAttendees,
		IsRecurring:         req.IsRecurring,
		RecurringType:       recurrenceType(req.RecurringType),
		RecurringDayOfWeek:  req.RecurringDayOfWeek,
		RecurringDayOfMonth: req.RecurringDayOfMonth,
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *TemplatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req updateTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	tmpl, err := h.Service.Update(r.Context(), id, templates.UpdateParams{
		Name:                req.Name,
		Title:               req.Title,
		Description:         req.Description,
		Location:            req.Location,
		Budget:              req.Budget,
		MaxAttendees:        req.MaxAttendees,
		IsRecurring:         req.IsRecurring,
		RecurringType:       recurrenceType(req.RecurringType),
		RecurringDayOfWeek:  req.RecurringDayOfWeek,
		RecurringDayOfMonth: req.RecurringDayOfMonth,
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *TemplatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// CreateEvent instantiates the template. The body is optional; without a
// date the template's next occurrence is used.
func (h *TemplatesHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req createEventFromTemplateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, h.Env, err)
			return
		}
	}
	event, err := h.Service.Instantiate(r.Context(), id, timePtr(req.Date))
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func recurrenceType(raw *string) *templates.RecurrenceType {
	if raw == nil {
		return nil
	}
	rt := templates.RecurrenceType(*raw)
	return &rt
}
