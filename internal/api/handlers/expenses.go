package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/glee/internal/domain/expenses"
)

type ExpensesHandler struct {
	Service *expenses.Service
	Env     string
}

func NewExpensesHandler(service *expenses.Service, env string) *ExpensesHandler {
	return &ExpensesHandler{Service: service, Env: env}
}

type createExpenseRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Amount      int     `json:"amount" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,oneof=food decorations entertainment venue equipment prizes other"`
	Vendor      *string `json:"vendor" validate:"omitempty,max=200"`
	PaidAt      *Date   `json:"paidAt"`
}

type updateExpenseRequest struct {
	Description *string `json:"description" validate:"omitempty,max=500"`
	Amount      *int    `json:"amount" validate:"omitempty,gte=0"`
	Category    *string `json:"category" validate:"omitempty,oneof=food decorations entertainment venue equipment prizes other"`
	Vendor      *string `json:"vendor" validate:"omitempty,max=200"`
	PaidAt      *Date   `json:"paidAt"`
}

// ListByEvent serves GET /api/events/{id}/expenses.
func (h *ExpensesHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	items, err := h.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create serves POST /api/events/{id}/expenses.
func (h *ExpensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	expense, err := h.Service.Create(r.Context(), eventID, expenses.CreateParams{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    expenses.Category(req.Category),
		Vendor:      req.Vendor,
		PaidAt:      timePtr(req.PaidAt),
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpensesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}

	params := expenses.UpdateParams{
		Description: req.Description,
		Amount:      req.Amount,
		Vendor:      req.Vendor,
		PaidAt:      timePtr(req.PaidAt),
	}
	if req.Category != nil {
		category := expenses.Category(*req.Category)
		params.Category = &category
	}

	expense, err := h.Service.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpensesHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
