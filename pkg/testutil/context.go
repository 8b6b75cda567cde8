package testutil

import (
	"net/http"
	"time"

	id "campusevents/pkg/domain"
	"campusevents/pkg/requestcontext"
)

// WithActor attaches a requesting user to the request context, simulating
// what the gateway identity middleware does for authenticated requests.
func WithActor(req *http.Request, actor requestcontext.ActorInfo) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actor)
	return req.WithContext(ctx)
}

// WithActorID attaches an actor identified only by user ID. The ID must be
// a valid UUID or the request is returned unchanged.
func WithActorID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return WithActor(req, requestcontext.ActorInfo{ID: parsed})
}

// WithRequestTime pins the request-scoped clock, simulating the request
// time middleware.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), t)
	return req.WithContext(ctx)
}

// WithRequestID attaches a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}
