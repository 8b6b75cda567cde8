package invite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "campusevents/pkg/domain"
	"campusevents/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) newInvitation(eventID id.EventID, name string) *Invitation {
	now := time.Now()
	return &Invitation{
		ID:        id.NewInvitationID(),
		EventID:   eventID,
		UserID:    id.NewUserID(),
		Name:      name,
		Email:     name + "@college.edu",
		Phone:     "+919000000000",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *MemoryStoreSuite) TestRecordAndExists() {
	eventID := id.NewEventID()
	inv := s.newInvitation(eventID, "anand")

	exists, err := s.store.Exists(s.ctx, eventID, inv.UserID)
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.store.Record(s.ctx, inv))

	exists, err = s.store.Exists(s.ctx, eventID, inv.UserID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *MemoryStoreSuite) TestRecordDuplicateConflicts() {
	eventID := id.NewEventID()
	inv := s.newInvitation(eventID, "anand")
	s.Require().NoError(s.store.Record(s.ctx, inv))

	dup := *inv
	dup.ID = id.NewInvitationID()
	s.ErrorIs(s.store.Record(s.ctx, &dup), sentinel.ErrConflict)

	invitations, err := s.store.ListByEvent(s.ctx, eventID)
	s.Require().NoError(err)
	s.Len(invitations, 1, "the pair stays unique")
}

func (s *MemoryStoreSuite) TestSameUserAcrossEvents() {
	inv := s.newInvitation(id.NewEventID(), "anand")
	s.Require().NoError(s.store.Record(s.ctx, inv))

	other := s.newInvitation(id.NewEventID(), "anand")
	other.UserID = inv.UserID
	s.Require().NoError(s.store.Record(s.ctx, other), "same user, different event is fine")

	events, err := s.store.ListEventIDsByUser(s.ctx, inv.UserID)
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *MemoryStoreSuite) TestListByEvent() {
	eventID := id.NewEventID()
	s.Require().NoError(s.store.Record(s.ctx, s.newInvitation(eventID, "anand")))
	s.Require().NoError(s.store.Record(s.ctx, s.newInvitation(eventID, "bhavna")))
	s.Require().NoError(s.store.Record(s.ctx, s.newInvitation(id.NewEventID(), "chitra")))

	invitations, err := s.store.ListByEvent(s.ctx, eventID)
	s.Require().NoError(err)
	s.Len(invitations, 2)

	empty, err := s.store.ListByEvent(s.ctx, id.NewEventID())
	s.Require().NoError(err)
	s.Empty(empty)
}
