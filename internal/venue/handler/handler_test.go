package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/venue"
	"campusevents/internal/venue/handler"
	id "campusevents/pkg/domain"
	"campusevents/pkg/testutil"
)

type noopNotifier struct{}

func (noopNotifier) Alert(context.Context, string, string, string) error { return nil }

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	svc := venue.NewService(venue.NewInMemoryStore(), noopNotifier{}, logger)
	router := chi.NewRouter()
	handler.New(svc, logger).Register(router)
	return router
}

func venueBody(city string) map[string]any {
	return map[string]any{
		"name":            "Main Auditorium",
		"email":           "auditorium@college.edu",
		"phone":           "9876543210",
		"venue_head":      id.NewUserID().String(),
		"state":           "Karnataka",
		"city":            city,
		"address":         "North Campus",
		"pincode":         "560001",
		"capacity":        500,
		"canteen_contact": "canteen@college.edu",
	}
}

func TestVenueLifecycle(t *testing.T) {
	router := newRouter(t)
	var created *venue.Venue

	testutil.Given(t, "a registered venue", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/venues", venueBody("Bengaluru"))
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
		created = testutil.UnmarshalResponse[venue.Venue](t, rr)
		assert.Equal(t, "Main Auditorium", created.Name)
	})

	testutil.When(t, "its details change", func(t *testing.T) {
		body := venueBody("Bengaluru")
		body["capacity"] = 650
		req := testutil.NewJSONRequest(t, http.MethodPut, "/venues/"+created.ID.String(), body)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
	})

	testutil.Then(t, "a lookup sees the update", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/venues/"+created.ID.String()))
		testutil.AssertStatusOK(t, rr)
		got := testutil.UnmarshalResponse[venue.Venue](t, rr)
		assert.Equal(t, 650, got.Capacity)
	})
}

func TestListFiltersByCity(t *testing.T) {
	router := newRouter(t)

	for _, city := range []string{"Bengaluru", "Mysuru"} {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/venues", venueBody(city))
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/venues?city=Mysuru"))
	testutil.AssertStatusOK(t, rr)
	venues := testutil.UnmarshalResponse[[]venue.Venue](t, rr)
	require.Len(t, *venues, 1)
	assert.Equal(t, "Mysuru", (*venues)[0].City)
}

func TestRegisterRejectsMissingHead(t *testing.T) {
	router := newRouter(t)
	body := venueBody("Bengaluru")
	body["venue_head"] = ""

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/venues", body))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestDeleteUnknownVenue(t *testing.T) {
	router := newRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/venues/"+id.NewVenueID().String()))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}
