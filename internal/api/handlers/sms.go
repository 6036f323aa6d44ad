package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/validation"
)

// SMSEnqueuer hands a dispatch to the background job queue and returns the
// job id.
type SMSEnqueuer interface {
	EnqueueSMSDispatch(ctx context.Context, eventID int64) (int64, error)
}

type SMSHandler struct {
	Service  *notifications.Service
	Events   *events.Service
	Enqueuer SMSEnqueuer
	Env      string
}

func NewSMSHandler(service *notifications.Service, eventService *events.Service, enqueuer SMSEnqueuer, env string) *SMSHandler {
	return &SMSHandler{Service: service, Events: eventService, Enqueuer: enqueuer, Env: env}
}

type queueSMSRequest struct {
	Message  string  `json:"message" validate:"required,max=1600"`
	StaffIDs []int64 `json:"staffIds" validate:"required,min=1,dive,gt=0"`
}

type enqueuedResponse struct {
	JobID int64 `json:"jobId"`
}

func (h *SMSHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	items, err := h.Service.ListForEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Queue records one pending notification per staff id.
func (h *SMSHandler) Queue(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var req queueSMSRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	items, err := h.Service.Queue(r.Context(), eventID, req.StaffIDs, req.Message)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusCreated, items)
}

// Send dispatches pending notifications. With ?async=true and a job queue
// configured the dispatch is enqueued and 202 returned; otherwise it runs
// inline.
func (h *SMSHandler) Send(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}

	async := false
	if raw := r.URL.Query().Get("async"); raw != "" {
		if async, err = strconv.ParseBool(raw); err != nil {
			writeError(w, r, h.Env, validation.Error{Field: "async", Message: "must be true or false"})
			return
		}
	}

	if async && h.Enqueuer != nil {
		if _, err := h.Events.Get(r.Context(), eventID); err != nil {
			writeError(w, r, h.Env, err)
			return
		}
		jobID, err := h.Enqueuer.EnqueueSMSDispatch(r.Context(), eventID)
		if err != nil {
			writeError(w, r, h.Env, err)
			return
		}
		writeJSON(w, http.StatusAccepted, enqueuedResponse{JobID: jobID})
		return
	}

	result, err := h.Service.Dispatch(r.Context(), eventID)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
