// Package handler exposes the event REST surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campusevents/internal/event"
	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/httputil"
	"campusevents/pkg/requestcontext"
)

// Service defines the event operations the handler exposes.
type Service interface {
	Create(ctx context.Context, input event.Event) (*event.Event, error)
	Update(ctx context.Context, eventID id.EventID, input event.Event) (*event.Event, error)
	UpdateStatus(ctx context.Context, eventID id.EventID, rawStatus string) (*event.Event, error)
	Delete(ctx context.Context, eventID id.EventID) error
	Get(ctx context.Context, eventID id.EventID) (*event.Event, error)
	List(ctx context.Context) ([]event.Event, error)
	AssignTasks(ctx context.Context, eventID id.EventID, assignments []event.TaskAssignment) ([]event.Task, error)
	TasksByEvent(ctx context.Context, eventID id.EventID) ([]event.Task, error)
	TasksByUser(ctx context.Context, userID id.UserID) ([]event.Task, error)
	SubmitFeedback(ctx context.Context, eventID id.EventID, f event.Feedback) (*event.Feedback, error)
	ListFeedback(ctx context.Context, eventID id.EventID) ([]event.Feedback, error)
}

type Handler struct {
	events Service
	logger *slog.Logger
}

func New(events Service, logger *slog.Logger) *Handler {
	return &Handler{events: events, logger: logger}
}

// Register registers the event routes. Routes are registered flat so the
// invitation handler can share the /events/{eventID} prefix.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events", h.handleCreate)
	r.Get("/events", h.handleList)
	r.Get("/events/{eventID}", h.handleGet)
	r.Put("/events/{eventID}", h.handleUpdate)
	r.Delete("/events/{eventID}", h.handleDelete)
	r.Patch("/events/{eventID}/status", h.handleUpdateStatus)
	r.Post("/events/{eventID}/tasks", h.handleAssignTasks)
	r.Get("/events/{eventID}/tasks", h.handleListTasks)
	r.Post("/events/{eventID}/feedback", h.handleSubmitFeedback)
	r.Get("/events/{eventID}/feedback", h.handleListFeedback)
	r.Get("/tasks", h.handleMyTasks)
}

type eventRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Caption         string `json:"caption"`
	FromDate        string `json:"from_date"`
	ToDate          string `json:"to_date"`
	Time            string `json:"time"`
	Image           string `json:"image"`
	VenueID         string `json:"venue_id"`
	FoodRequirement string `json:"food_req"`
	ExpectedCount   int    `json:"expected_count"`
}

func (req eventRequest) toModel() (event.Event, error) {
	e := event.Event{
		Name:            req.Name,
		Description:     req.Description,
		Caption:         req.Caption,
		FromDate:        req.FromDate,
		ToDate:          req.ToDate,
		Time:            req.Time,
		Image:           req.Image,
		FoodRequirement: req.FoodRequirement,
		ExpectedCount:   req.ExpectedCount,
	}
	if req.VenueID != "" {
		venueID, err := id.ParseVenueID(req.VenueID)
		if err != nil {
			return event.Event{}, err
		}
		e.Venue = venueID
	}
	return e, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[eventRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	input, err := req.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.events.Create(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "event create failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	e, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[eventRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	input, err := req.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.events.Update(ctx, eventID, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[statusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	updated, err := h.events.UpdateStatus(ctx, eventID, req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	if err := h.events.Delete(r.Context(), eventID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignTasksRequest struct {
	Tasks []struct {
		UserID string `json:"user_id"`
		Task   string `json:"task"`
	} `json:"tasks"`
}

func (h *Handler) handleAssignTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[assignTasksRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	assignments := make([]event.TaskAssignment, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		userID, err := id.ParseUserID(t.UserID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		assignments = append(assignments, event.TaskAssignment{UserID: userID, Task: t.Task})
	}

	tasks, err := h.events.AssignTasks(ctx, eventID, assignments)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tasks)
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	tasks, err := h.events.TasksByEvent(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

// handleMyTasks lists the acting user's assigned tasks.
func (h *Handler) handleMyTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)
	tasks, err := h.events.TasksByUser(ctx, actor.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

type feedbackRequest struct {
	Overall      int    `json:"overall"`
	Venue        int    `json:"venue"`
	Coordination int    `json:"coordination"`
	Canteen      int    `json:"canteen"`
	Suggestion   string `json:"suggestion"`
}

func (h *Handler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[feedbackRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	saved, err := h.events.SubmitFeedback(ctx, eventID, event.Feedback{
		Overall:      req.Overall,
		Venue:        req.Venue,
		Coordination: req.Coordination,
		Canteen:      req.Canteen,
		Suggestion:   req.Suggestion,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	feedback, err := h.events.ListFeedback(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, feedback)
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (id.EventID, bool) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.EventID{}, false
	}
	return eventID, true
}
