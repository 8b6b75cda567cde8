//go:build integration

package invite_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campusevents/internal/invite"
	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
	"campusevents/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *invite.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = invite.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "invitations")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newInvitation(eventID id.EventID, userID id.UserID) *invite.Invitation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &invite.Invitation{
		ID:        id.NewInvitationID(),
		EventID:   eventID,
		UserID:    userID,
		Name:      "Asha Rao",
		Email:     "asha@college.edu",
		Phone:     "9876543210",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestRecordAndExists() {
	ctx := context.Background()
	inv := s.newInvitation(id.NewEventID(), id.NewUserID())

	exists, err := s.store.Exists(ctx, inv.EventID, inv.UserID)
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.store.Record(ctx, inv))

	exists, err = s.store.Exists(ctx, inv.EventID, inv.UserID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *PostgresStoreSuite) TestDuplicatePairConflicts() {
	ctx := context.Background()
	eventID := id.NewEventID()
	userID := id.NewUserID()

	s.Require().NoError(s.store.Record(ctx, s.newInvitation(eventID, userID)))

	err := s.store.Record(ctx, s.newInvitation(eventID, userID))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	list, err := s.store.ListByEvent(ctx, eventID)
	s.Require().NoError(err)
	s.Len(list, 1)
}

// TestConcurrentRecordSamePair verifies that racing inserts for one
// (event, user) pair leave exactly one row, with the losers reporting a
// conflict rather than failing the whole batch.
func (s *PostgresStoreSuite) TestConcurrentRecordSamePair() {
	ctx := context.Background()
	eventID := id.NewEventID()
	userID := id.NewUserID()
	const goroutines = 50

	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Record(ctx, s.newInvitation(eventID, userID))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())

	list, err := s.store.ListByEvent(ctx, eventID)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *PostgresStoreSuite) TestListEventIDsByUser() {
	ctx := context.Background()
	userID := id.NewUserID()
	first := id.NewEventID()
	second := id.NewEventID()

	s.Require().NoError(s.store.Record(ctx, s.newInvitation(first, userID)))
	s.Require().NoError(s.store.Record(ctx, s.newInvitation(second, userID)))
	s.Require().NoError(s.store.Record(ctx, s.newInvitation(first, id.NewUserID())))

	eventIDs, err := s.store.ListEventIDsByUser(ctx, userID)
	s.Require().NoError(err)
	s.ElementsMatch([]id.EventID{first, second}, eventIDs)
}
