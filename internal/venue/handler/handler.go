// Package handler exposes the venue REST surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campusevents/internal/venue"
	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/httputil"
	"campusevents/pkg/requestcontext"
)

// Service defines the venue operations the handler exposes.
type Service interface {
	Register(ctx context.Context, input venue.Venue) (*venue.Venue, error)
	Update(ctx context.Context, venueID id.VenueID, input venue.Venue) (*venue.Venue, error)
	Delete(ctx context.Context, venueID id.VenueID) error
	Get(ctx context.Context, venueID id.VenueID) (*venue.Venue, error)
	List(ctx context.Context, city string) ([]venue.Venue, error)
}

type Handler struct {
	venues Service
	logger *slog.Logger
}

func New(venues Service, logger *slog.Logger) *Handler {
	return &Handler{venues: venues, logger: logger}
}

// Register registers the venue routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/venues", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Get("/", h.handleList)
		r.Route("/{venueID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
		})
	})
}

type venueRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	VenueHead      string `json:"venue_head"`
	State          string `json:"state"`
	City           string `json:"city"`
	Address        string `json:"address"`
	Pincode        string `json:"pincode"`
	Capacity       int    `json:"capacity"`
	Website        string `json:"website"`
	CanteenMenu    string `json:"canteen_menu"`
	CanteenContact string `json:"canteen_contact"`
	Image          string `json:"image"`
}

func (req venueRequest) toModel() (venue.Venue, error) {
	head, err := id.ParseUserID(req.VenueHead)
	if err != nil {
		return venue.Venue{}, err
	}
	return venue.Venue{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		VenueHead:      head,
		State:          req.State,
		City:           req.City,
		Address:        req.Address,
		Pincode:        req.Pincode,
		Capacity:       req.Capacity,
		Website:        req.Website,
		CanteenMenu:    req.CanteenMenu,
		CanteenContact: req.CanteenContact,
		Image:          req.Image,
	}, nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[venueRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	input, err := req.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.venues.Register(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "venue register failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	venues, err := h.venues.List(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, venues)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	venueID, ok := h.venueID(w, r)
	if !ok {
		return
	}
	v, err := h.venues.Get(r.Context(), venueID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	venueID, ok := h.venueID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[venueRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	input, err := req.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.venues.Update(ctx, venueID, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	venueID, ok := h.venueID(w, r)
	if !ok {
		return
	}
	if err := h.venues.Delete(r.Context(), venueID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) venueID(w http.ResponseWriter, r *http.Request) (id.VenueID, bool) {
	venueID, err := id.ParseVenueID(chi.URLParam(r, "venueID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.VenueID{}, false
	}
	return venueID, true
}
