// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Values are set by middleware and consumed by services. Keeping this
// package free of net/http dependencies lets services import only what they
// need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	actor := requestcontext.Actor(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithActor(ctx, requestcontext.ActorInfo{...})
package requestcontext

import (
	"context"
	"time"

	id "campusevents/pkg/domain"
)

// ActorInfo identifies the portal user performing a request. The gateway
// authenticates the user; this service only carries the identity through
// for activity logging and notification addressing.
type ActorInfo struct {
	ID    id.UserID
	Name  string
	Email string
}

// IsZero reports whether no actor has been attached.
func (a ActorInfo) IsZero() bool {
	return a.ID.IsNil() && a.Name == "" && a.Email == ""
}

type (
	actorKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Actor retrieves the requesting user from the context. Returns the zero
// value if not set.
func Actor(ctx context.Context) ActorInfo {
	if actor, ok := ctx.Value(actorKey{}).(ActorInfo); ok {
		return actor
	}
	return ActorInfo{}
}

// WithActor injects the requesting user into the context.
func WithActor(ctx context.Context, actor ActorInfo) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. All operations within
// a single request observe the same "now" so invitation timestamps and
// activity records stay consistent.
//
// Falls back to time.Now() for non-HTTP contexts (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
