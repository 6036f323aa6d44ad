package handlers

import (
	"net/http"

	"github.com/Togather-Foundation/glee/internal/domain/meetings"
)

type MeetingsHandler struct {
	Service *meetings.Service
	Env     string
}

func NewMeetingsHandler(service *meetings.Service, env string) *MeetingsHandler {
	return &MeetingsHandler{Service: service, Env: env}
}

type createMeetingRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Date          *Date   `json:"date" validate:"required"`
	ChairpersonID *int64  `json:"chairpersonId" validate:"omitempty,gte=0"`
	SecretaryID   *int64  `json:"secretaryId" validate:"omitempty,gte=0"`
	LoopLink      *string `json:"loopLink"`
	Minutes       *string `json:"minutes"`
	Status        string  `json:"status" validate:"omitempty,oneof=scheduled completed"`
}

type updateMeetingRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=200"`
	Date          *Date   `json:"date"`
	ChairpersonID *int64  `json:"chairpersonId" validate:"omitempty,gte=0"`
	SecretaryID   *int64  `json:"secretaryId" validate:"omitempty,gte=0"`
	LoopLink      *string `json:"loopLink"`
	Minutes       *string `json:"minutes"`
	Status        *string `json:"status" validate:"omitempty,oneof=scheduled completed"`
}

func (h *MeetingsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MeetingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	meeting, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

func (h *MeetingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	meeting, err := h.Service.Create(r.Context(), meetings.CreateParams{
		Title:         req.Title,
		Date:          req.Date.Time,
		ChairpersonID: req.ChairpersonID,
		SecretaryID:   req.SecretaryID,
		LoopLink:      req.LoopLink,
		Minutes:       req.Minutes,
		Status:        meetings.Status(req.Status),
	})
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, meeting)
}

func (h *MeetingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req updateMeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}

	params := meetings.UpdateParams{
		Title:         req.Title,
		Date:          timePtr(req.Date),
		ChairpersonID: req.ChairpersonID,
		SecretaryID:   req.SecretaryID,
		LoopLink:      req.LoopLink,
		Minutes:       req.Minutes,
	}
	if req.Status != nil {
		status := meetings.Status(*req.Status)
		params.Status = &status
	}

	meeting, err := h.Service.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting)
}

func (h *MeetingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
