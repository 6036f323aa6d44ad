package handlers

import (
	"net/http"
	"strconv"

	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/validation"
)

type StaffHandler struct {
	Service *staff.Service
	Env     string
}

func NewStaffHandler(service *staff.Service, env string) *StaffHandler {
	return &StaffHandler{Service: service, Env: env}
}

type createStaffRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required,max=32"`
	IsActive *bool  `json:"isActive"`
}

type updateStaffRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	IsActive *bool   `json:"isActive"`
}

// List returns every member, or only active ones with ?active=true.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, h.Env, validation.Error{Field: "active", Message: "must be true or false"})
			return
		}
		activeOnly = v
	}

	var (
		items []staff.Member
		err   error
	)
	if activeOnly {
		items, err = h.Service.ListActive(r.Context())
	} else {
		items, err = h.Service.List(r.Context())
	}
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	member, err := h.Service.Create(r.Context(), staff.CreateParams{
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req updateStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	member, err := h.Service.Update(r.Context(), id, staff.UpdateParams{
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
