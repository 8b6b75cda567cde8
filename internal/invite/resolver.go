package invite

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"campusevents/internal/membership"
	id "campusevents/pkg/domain"
	dErrors "campusevents/pkg/domain-errors"
	pstrings "campusevents/pkg/platform/strings"
)

// SourceFailure reports one audience source that could not be resolved.
// Source is the department name or the explicit user id.
type SourceFailure struct {
	Source string `json:"source"`
	Err    error  `json:"-"`
}

// Audience is the resolved recipient set. Members holds the deduplicated
// union in stable order: department members first, in the order the
// departments were given, then explicit users; first occurrence of a user
// wins.
type Audience struct {
	Members []membership.Member
	Failed  []SourceFailure
}

// Resolver expands departments and explicit user ids into members.
type Resolver struct {
	members membership.Store
	logger  *slog.Logger
	workers int
}

type ResolverOption func(*Resolver)

// WithResolverWorkers bounds concurrent membership lookups.
func WithResolverWorkers(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

func NewResolver(members membership.Store, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{members: members, logger: logger, workers: 8}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks all sources up concurrently and returns partial results:
// a failed department or user lookup is reported in Audience.Failed while
// the remaining sources still resolve. The call fails only when every
// source failed.
func (r *Resolver) Resolve(ctx context.Context, departments []string, userIDs []id.UserID) (Audience, error) {
	departments = pstrings.DedupeAndTrim(departments)

	var (
		mu          sync.Mutex
		failures    []SourceFailure
		deptResults = make([][]membership.Member, len(departments))
		userResults = make([]*membership.Member, len(userIDs))
	)
	recordFailure := func(source string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, SourceFailure{Source: source, Err: err})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, dept := range departments {
		g.Go(func() error {
			members, err := r.members.FindByDepartment(gctx, dept)
			if err != nil {
				r.logger.Warn("department lookup failed", "department", dept, "error", err)
				recordFailure(dept, err)
				return nil
			}
			deptResults[i] = members
			return nil
		})
	}
	for i, userID := range userIDs {
		g.Go(func() error {
			member, err := r.members.FindByID(gctx, userID)
			if err != nil {
				r.logger.Warn("user lookup failed", "user_id", userID.String(), "error", err)
				recordFailure(userID.String(), err)
				return nil
			}
			userResults[i] = member
			return nil
		})
	}
	_ = g.Wait()

	total := len(departments) + len(userIDs)
	if total > 0 && len(failures) == total {
		return Audience{Failed: failures}, dErrors.New(
			dErrors.CodeUpstreamUnavailable, "no audience source could be resolved")
	}

	seen := make(map[id.UserID]struct{})
	var members []membership.Member
	add := func(m membership.Member) {
		if _, ok := seen[m.ID]; ok {
			return
		}
		seen[m.ID] = struct{}{}
		members = append(members, m)
	}
	for _, batch := range deptResults {
		for _, m := range batch {
			add(m)
		}
	}
	for _, m := range userResults {
		if m != nil {
			add(*m)
		}
	}
	return Audience{Members: members, Failed: failures}, nil
}
