// Package handler exposes the booking REST surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campusevents/internal/booking"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/platform/httputil"
	"campusevents/pkg/requestcontext"
)

// Service defines the booking operations the handler exposes.
type Service interface {
	Request(ctx context.Context, eventID id.EventID, venueID id.VenueID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, bookingID id.BookingID, rawStatus string) (*booking.Booking, error)
	Get(ctx context.Context, bookingID id.BookingID) (*booking.Booking, error)
	ListByEvent(ctx context.Context, eventID id.EventID) ([]booking.Booking, error)
	ListByVenue(ctx context.Context, venueID id.VenueID) ([]booking.Booking, error)
}

type Handler struct {
	bookings Service
	logger   *slog.Logger
}

func New(bookings Service, logger *slog.Logger) *Handler {
	return &Handler{bookings: bookings, logger: logger}
}

// Register registers the booking routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.handleRequest)
		r.Get("/", h.handleList)
		r.Route("/{bookingID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Patch("/status", h.handleUpdateStatus)
		})
	})
}

type bookingRequest struct {
	EventID string `json:"event_id"`
	VenueID string `json:"venue_id"`
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[bookingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	eventID, err := id.ParseEventID(req.EventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	venueID, err := id.ParseVenueID(req.VenueID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.bookings.Request(ctx, eventID, venueID)
	if err != nil {
		h.logger.WarnContext(ctx, "booking request failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookingID, err := id.ParseBookingID(chi.URLParam(r, "bookingID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[statusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	updated, err := h.bookings.UpdateStatus(ctx, bookingID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "booking transition failed",
			"request_id", requestcontext.RequestID(ctx),
			"booking_id", bookingID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	bookingID, err := id.ParseBookingID(chi.URLParam(r, "bookingID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.bookings.Get(r.Context(), bookingID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

// handleList filters by event_id or venue_id; exactly one is required.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rawEvent := r.URL.Query().Get("event_id")
	rawVenue := r.URL.Query().Get("venue_id")

	switch {
	case rawEvent != "" && rawVenue == "":
		eventID, err := id.ParseEventID(rawEvent)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		bookings, err := h.bookings.ListByEvent(ctx, eventID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, bookings)
	case rawVenue != "" && rawEvent == "":
		venueID, err := id.ParseVenueID(rawVenue)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		bookings, err := h.bookings.ListByVenue(ctx, venueID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, bookings)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
			"exactly one of event_id or venue_id is required"))
	}
}
