package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/event"
	"campusevents/internal/invite"
	"campusevents/internal/invite/handler"
	"campusevents/internal/notification"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	"campusevents/pkg/requestcontext"
	"campusevents/pkg/testutil"
)

type stubService struct {
	inviteFn func(ctx context.Context, req invite.Request) (*invite.Result, error)
	listFn   func(ctx context.Context, eventID id.EventID) ([]invite.Invitation, error)
	eventsFn func(ctx context.Context, userID id.UserID) ([]event.Event, error)
}

func (s stubService) Invite(ctx context.Context, req invite.Request) (*invite.Result, error) {
	return s.inviteFn(ctx, req)
}

func (s stubService) ListByEvent(ctx context.Context, eventID id.EventID) ([]invite.Invitation, error) {
	return s.listFn(ctx, eventID)
}

func (s stubService) InvitedEvents(ctx context.Context, userID id.UserID) ([]event.Event, error) {
	return s.eventsFn(ctx, userID)
}

func newRouter(svc stubService) chi.Router {
	router := chi.NewRouter()
	handler.New(svc, slog.New(slog.DiscardHandler)).Register(router)
	return router
}

func TestInviteReturnsPipelineCounts(t *testing.T) {
	eventID := id.NewEventID()
	userID := id.NewUserID()

	var got invite.Request
	router := newRouter(stubService{
		inviteFn: func(_ context.Context, req invite.Request) (*invite.Result, error) {
			got = req
			return &invite.Result{
				Invited: 3,
				Skipped: 1,
				Failed:  []invite.SourceFailure{{Source: "ECE"}},
				Report:  notification.Report{Notified: 3, SMSSent: 2, MailBatches: 1},
			}, nil
		},
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/events/"+eventID.String()+"/invites", map[string]any{
		"departments": []string{"CSE", "ECE"},
		"user_ids":    []string{userID.String()},
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusAccepted)
	assert.Equal(t, eventID, got.EventID)
	assert.Equal(t, []string{"CSE", "ECE"}, got.Departments)
	assert.Equal(t, []id.UserID{userID}, got.UserIDs)

	resp := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, float64(3), (*resp)["invited"])
	assert.Equal(t, float64(1), (*resp)["skipped"])
	assert.Equal(t, []any{"ECE"}, (*resp)["failed_sources"])
	dispatch := (*resp)["dispatch"].(map[string]any)
	assert.Equal(t, float64(2), dispatch["sms_sent"])
}

func TestInviteRejectsMalformedUserID(t *testing.T) {
	router := newRouter(stubService{
		inviteFn: func(context.Context, invite.Request) (*invite.Result, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/events/"+id.NewEventID().String()+"/invites", map[string]any{
		"user_ids": []string{"nope"},
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestInvitePropagatesServiceError(t *testing.T) {
	router := newRouter(stubService{
		inviteFn: func(context.Context, invite.Request) (*invite.Result, error) {
			return nil, dErrors.New(dErrors.CodeUpstreamUnavailable, "no audience source reachable")
		},
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/events/"+id.NewEventID().String()+"/invites", map[string]any{
		"departments": []string{"CSE"},
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadGateway, "upstream_unavailable")
}

func TestInvitedEventsUsesActor(t *testing.T) {
	actorID := id.NewUserID()
	router := newRouter(stubService{
		eventsFn: func(_ context.Context, userID id.UserID) ([]event.Event, error) {
			require.Equal(t, actorID, userID)
			return []event.Event{{ID: id.NewEventID(), Name: "TechFest 2026"}}, nil
		},
	})

	req := testutil.NewRequest(t, http.MethodGet, "/invites/events")
	req = testutil.WithActor(req, requestcontext.ActorInfo{ID: actorID})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	events := testutil.UnmarshalResponse[[]event.Event](t, rr)
	require.Len(t, *events, 1)
	assert.Equal(t, "TechFest 2026", (*events)[0].Name)
}
