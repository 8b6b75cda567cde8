// Package handler exposes the invitation REST surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campusevents/internal/event"
	"campusevents/internal/invite"
	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/httputil"
	"campusevents/pkg/requestcontext"
)

// Service defines the invitation operations the handler exposes.
type Service interface {
	Invite(ctx context.Context, req invite.Request) (*invite.Result, error)
	ListByEvent(ctx context.Context, eventID id.EventID) ([]invite.Invitation, error)
	InvitedEvents(ctx context.Context, userID id.UserID) ([]event.Event, error)
}

type Handler struct {
	invites Service
	logger  *slog.Logger
}

func New(invites Service, logger *slog.Logger) *Handler {
	return &Handler{invites: invites, logger: logger}
}

// Register registers the invitation routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events/{eventID}/invites", h.handleInvite)
	r.Get("/events/{eventID}/invites", h.handleListByEvent)
	r.Get("/invites/events", h.handleInvitedEvents)
}

type inviteRequest struct {
	Departments []string `json:"departments"`
	UserIDs     []string `json:"user_ids"`
}

type inviteResponse struct {
	Invited int          `json:"invited"`
	Skipped int          `json:"skipped"`
	Dropped int          `json:"dropped"`
	Failed  []string     `json:"failed_sources,omitempty"`
	Report  dispatchInfo `json:"dispatch"`
}

type dispatchInfo struct {
	Notified    int `json:"notified"`
	SMSSent     int `json:"sms_sent"`
	MailBatches int `json:"mail_batches"`
	Failures    int `json:"failures"`
}

func (h *Handler) handleInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[inviteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	userIDs := make([]id.UserID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		userID, err := id.ParseUserID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		userIDs = append(userIDs, userID)
	}

	result, err := h.invites.Invite(ctx, invite.Request{
		EventID:     eventID,
		Departments: req.Departments,
		UserIDs:     userIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "invite failed",
			"request_id", requestcontext.RequestID(ctx),
			"event_id", eventID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}

	resp := inviteResponse{
		Invited: result.Invited,
		Skipped: result.Skipped,
		Dropped: result.Dropped,
		Report: dispatchInfo{
			Notified:    result.Report.Notified,
			SMSSent:     result.Report.SMSSent,
			MailBatches: result.Report.MailBatches,
			Failures:    len(result.Report.Failures),
		},
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, f.Source)
	}
	httputil.WriteJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) handleListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	invitations, err := h.invites.ListByEvent(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, invitations)
}

// handleInvitedEvents lists the events the acting user is invited to.
func (h *Handler) handleInvitedEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)
	events, err := h.invites.InvitedEvents(ctx, actor.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (id.EventID, bool) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.EventID{}, false
	}
	return eventID, true
}
