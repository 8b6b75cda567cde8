package handler

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"campusevents/internal/booking"
	"campusevents/internal/booking/handler/mocks"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service.go -package=mocks Service
type BookingHandlerSuite struct {
	suite.Suite
	router  chi.Router
	service *mocks.MockService
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerSuite))
}

func (s *BookingHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)

	h := New(s.service, slog.New(slog.DiscardHandler))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *BookingHandlerSuite) newBooking(eventID id.EventID, venueID id.VenueID) *booking.Booking {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	return &booking.Booking{
		ID:        id.NewBookingID(),
		EventID:   eventID,
		VenueID:   venueID,
		Status:    booking.StatusRequested,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *BookingHandlerSuite) TestRequest() {
	eventID := id.NewEventID()
	venueID := id.NewVenueID()
	created := s.newBooking(eventID, venueID)
	s.service.EXPECT().Request(gomock.Any(), eventID, venueID).Return(created, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/bookings", map[string]string{
		"event_id": eventID.String(),
		"venue_id": venueID.String(),
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[booking.Booking](s.T(), rr)
	s.Equal(created.ID, resp.ID)
	s.Equal(booking.StatusRequested, resp.Status)
}

func (s *BookingHandlerSuite) TestRequestRejectsMalformedIDs() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/bookings", map[string]string{
		"event_id": "not-a-uuid",
		"venue_id": id.NewVenueID().String(),
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
}

func (s *BookingHandlerSuite) TestUpdateStatus() {
	b := s.newBooking(id.NewEventID(), id.NewVenueID())
	b.Status = booking.StatusApproved
	s.service.EXPECT().UpdateStatus(gomock.Any(), b.ID, "approved").Return(b, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/bookings/"+b.ID.String()+"/status", map[string]string{"status": "approved"})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[booking.Booking](s.T(), rr)
	s.Equal(booking.StatusApproved, resp.Status)
}

func (s *BookingHandlerSuite) TestUpdateStatusConflict() {
	bookingID := id.NewBookingID()
	s.service.EXPECT().UpdateStatus(gomock.Any(), bookingID, "approved").
		Return(nil, dErrors.New(dErrors.CodeInvalidTransition, "booking is already rejected"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/bookings/"+bookingID.String()+"/status", map[string]string{"status": "approved"})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invalid_transition")
}

func (s *BookingHandlerSuite) TestListByEvent() {
	eventID := id.NewEventID()
	s.service.EXPECT().ListByEvent(gomock.Any(), eventID).
		Return([]booking.Booking{*s.newBooking(eventID, id.NewVenueID())}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/bookings?event_id="+eventID.String())
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[[]booking.Booking](s.T(), rr)
	s.Len(*resp, 1)
}

func (s *BookingHandlerSuite) TestListRequiresExactlyOneFilter() {
	for _, path := range []string{
		"/bookings",
		"/bookings?event_id=" + id.NewEventID().String() + "&venue_id=" + id.NewVenueID().String(),
	} {
		req := testutil.NewRequest(s.T(), http.MethodGet, path)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	}
}

func (s *BookingHandlerSuite) TestGetNotFound() {
	bookingID := id.NewBookingID()
	s.service.EXPECT().Get(gomock.Any(), bookingID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "booking not found"))

	req := testutil.NewRequest(s.T(), http.MethodGet, "/bookings/"+bookingID.String())
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}
