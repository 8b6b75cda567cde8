package membership

import (
	"context"
	"testing"

	"github.com/google/uuid"
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

func (s *MemoryStoreSuite) newMember(name, department string) Member {
	return Member{
		ID:         id.UserID(uuid.New()),
		Name:       name,
		Email:      name + "@college.edu",
		Phone:      "+919000000000",
		Department: department,
	}
}

func (s *MemoryStoreSuite) TestFindByDepartment() {
	cse1 := s.newMember("anand", "CSE")
	cse2 := s.newMember("bhavna", "CSE")
	ece := s.newMember("chitra", "ECE")
	s.store.Seed(cse1, cse2, ece)

	s.Run("returns only tagged members", func() {
		members, err := s.store.FindByDepartment(s.ctx, "CSE")
		s.Require().NoError(err)
		s.Len(members, 2)
		for _, m := range members {
			s.Equal("CSE", m.Department)
		}
	})

	s.Run("unknown department is empty, not an error", func() {
		members, err := s.store.FindByDepartment(s.ctx, "CIVIL")
		s.Require().NoError(err)
		s.Empty(members)
	})
}

func (s *MemoryStoreSuite) TestFindByID() {
	member := s.newMember("devi", "MECH")
	s.store.Seed(member)

	s.Run("finds seeded member", func() {
		found, err := s.store.FindByID(s.ctx, member.ID)
		s.Require().NoError(err)
		s.Equal(member.Email, found.Email)
	})

	s.Run("unknown id returns ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, id.UserID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
