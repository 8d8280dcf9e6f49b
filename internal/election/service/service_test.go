package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"univote/internal/election/models"
	"univote/internal/election/store"
	"univote/internal/storage"
	votermodels "univote/internal/voter/models"
	voterservice "univote/internal/voter/service"
	voterstore "univote/internal/voter/store"
	dErrors "univote/pkg/domain-errors"
)

type ElectionServiceSuite struct {
	suite.Suite
	svc    *Service
	voters *voterservice.Service
	ctx    context.Context
}

func (s *ElectionServiceSuite) SetupTest() {
	s.voters = voterservice.New(voterstore.NewDocuments(storage.NewMemory()))
	s.svc = New(store.NewDocuments(storage.NewMemory()), s.voters)
	s.ctx = context.Background()
}

func TestElectionServiceSuite(t *testing.T) {
	suite.Run(t, new(ElectionServiceSuite))
}

func period(hours float64) *float64 { return &hours }

func newCreateRequest(code string) models.CreateElectionRequest {
	return models.CreateElectionRequest{
		ElectionCode:      code,
		ElectionName:      "Student Council " + code,
		ElectionStartDate: time.Date(2023, 4, 1, 9, 0, 0, 0, time.UTC),
		ElectionPeriod:    period(48),
		Positions: []models.NewPosition{
			{PositionID: "pres", PositionName: "President", Candidates: []string{"20012006", "20022006"}},
			{PositionID: "sec", PositionName: "Secretary", Candidates: []string{"20032006"}},
		},
	}
}

func (s *ElectionServiceSuite) registerVoter(studentID, first, last string) {
	_, err := s.voters.Register(s.ctx, votermodels.Voter{
		StudentID: studentID,
		Firstname: first,
		Lastname:  last,
		Email:     first + "." + last + "@ashesi.edu.gh",
	})
	s.Require().NoError(err)
}

func (s *ElectionServiceSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.Require().True(dErrors.HasCode(err, code), "expected code %s, got %v", code, err)
}

func (s *ElectionServiceSuite) TestCreate() {
	s.Run("denormalizes candidates with empty voter lists", func() {
		created, err := s.svc.Create(s.ctx, newCreateRequest("EC01"))
		s.Require().NoError(err)
		s.Require().Len(created.Positions, 2)
		s.Require().Len(created.Positions[0].Candidates, 2)
		for _, p := range created.Positions {
			for _, c := range p.Candidates {
				s.NotNil(c.CandidateVoters)
				s.Empty(c.CandidateVoters)
			}
		}
	})

	s.Run("reports all missing keys", func() {
		_, err := s.svc.Create(s.ctx, models.CreateElectionRequest{ElectionName: "Council"})
		s.requireCode(err, dErrors.CodeValidation)
		var de *dErrors.Error
		s.Require().ErrorAs(err, &de)
		s.Equal([]string{
			"Election_code is required",
			"Election_startdate is required",
			"Election_period is required",
			"Positions is required",
		}, de.Missing)
	})

	s.Run("rejects duplicate code and name", func() {
		dup := newCreateRequest("EC01")
		_, err := s.svc.Create(s.ctx, dup)
		s.requireCode(err, dErrors.CodeConflict)
		var de *dErrors.Error
		s.Require().ErrorAs(err, &de)
		s.Contains(de.Fields, "election_code")
		s.Contains(de.Fields, "election_name")
	})

	s.Run("distinct code and name is accepted", func() {
		_, err := s.svc.Create(s.ctx, newCreateRequest("EC02"))
		s.Require().NoError(err)
	})
}

func (s *ElectionServiceSuite) TestListAndGet() {
	s.Run("empty registry lists as empty slice", func() {
		elections, err := s.svc.List(s.ctx)
		s.Require().NoError(err)
		s.NotNil(elections)
		s.Empty(elections)
	})

	s.Run("get on empty registry is not found", func() {
		_, err := s.svc.GetByCode(s.ctx, "EC01")
		s.requireCode(err, dErrors.CodeNotFound)
	})

	_, err := s.svc.Create(s.ctx, newCreateRequest("EC01"))
	s.Require().NoError(err)
	_, err = s.svc.Create(s.ctx, newCreateRequest("EC02"))
	s.Require().NoError(err)

	s.Run("list preserves creation order and is idempotent", func() {
		first, err := s.svc.List(s.ctx)
		s.Require().NoError(err)
		second, err := s.svc.List(s.ctx)
		s.Require().NoError(err)
		s.Equal(first, second)
		s.Require().Len(first, 2)
		s.Equal("EC01", first[0].ElectionCode)
		s.Equal("EC02", first[1].ElectionCode)
	})

	s.Run("get by code", func() {
		e, err := s.svc.GetByCode(s.ctx, "EC02")
		s.Require().NoError(err)
		s.Equal("Student Council EC02", e.ElectionName)
	})

	s.Run("unknown code is not found", func() {
		_, err := s.svc.GetByCode(s.ctx, "EC99")
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ElectionServiceSuite) TestDelete() {
	s.Run("empty code is invalid", func() {
		_, err := s.svc.Delete(s.ctx, "")
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("empty registry is not found", func() {
		_, err := s.svc.Delete(s.ctx, "EC01")
		s.requireCode(err, dErrors.CodeNotFound)
	})

	_, err := s.svc.Create(s.ctx, newCreateRequest("EC01"))
	s.Require().NoError(err)

	s.Run("removes the election", func() {
		msg, err := s.svc.Delete(s.ctx, "EC01")
		s.Require().NoError(err)
		s.Equal("Election with code EC01 has been deleted successfully!", msg)

		elections, err := s.svc.List(s.ctx)
		s.Require().NoError(err)
		s.Empty(elections)
	})
}

func (s *ElectionServiceSuite) TestCastVote() {
	s.registerVoter("10012006", "Ama", "Mensah")
	s.registerVoter("20012006", "Kofi", "Adjei")
	s.registerVoter("20022006", "Esi", "Osei")

	_, err := s.svc.Create(s.ctx, newCreateRequest("EC01"))
	s.Require().NoError(err)

	ballot := func() models.VoteRequest {
		return models.VoteRequest{ElectionCode: "EC01", StudentID: "10012006", CandidateID: "20012006"}
	}

	s.Run("missing position id", func() {
		_, err := s.svc.CastVote(s.ctx, "", ballot())
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("missing ballot keys", func() {
		_, err := s.svc.CastVote(s.ctx, "pres", models.VoteRequest{ElectionCode: "EC01"})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("malformed ids", func() {
		req := ballot()
		req.StudentID = "12"
		_, err := s.svc.CastVote(s.ctx, "pres", req)
		s.requireCode(err, dErrors.CodeValidation)

		req = ballot()
		req.CandidateID = "xx"
		_, err = s.svc.CastVote(s.ctx, "pres", req)
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("unregistered voter is rejected", func() {
		req := ballot()
		req.StudentID = "99992006"
		_, err := s.svc.CastVote(s.ctx, "pres", req)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("unknown election code", func() {
		req := ballot()
		req.ElectionCode = "EC99"
		_, err := s.svc.CastVote(s.ctx, "pres", req)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("unknown position", func() {
		_, err := s.svc.CastVote(s.ctx, "treasurer", ballot())
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("candidate not running for the position", func() {
		req := ballot()
		req.CandidateID = "20032006"
		// 20032006 runs for secretary, not president; register them first so
		// the roster check passes and the position check is what fails.
		s.registerVoter("20032006", "Yaw", "Boateng")
		_, err := s.svc.CastVote(s.ctx, "pres", req)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("records the ballot", func() {
		e, err := s.svc.CastVote(s.ctx, "pres", ballot())
		s.Require().NoError(err)
		candidate := e.Position("pres").Candidate("20012006")
		s.Require().NotNil(candidate)
		s.Equal([]string{"10012006"}, candidate.CandidateVoters)
	})

	s.Run("second ballot for the same position is forbidden", func() {
		_, err := s.svc.CastVote(s.ctx, "pres", ballot())
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("vote switch counts as a second ballot", func() {
		req := ballot()
		req.CandidateID = "20022006"
		_, err := s.svc.CastVote(s.ctx, "pres", req)
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("same voter may still vote for another position", func() {
		req := models.VoteRequest{ElectionCode: "EC01", StudentID: "10012006", CandidateID: "20032006"}
		e, err := s.svc.CastVote(s.ctx, "sec", req)
		s.Require().NoError(err)
		s.Equal([]string{"10012006"}, e.Position("sec").Candidate("20032006").CandidateVoters)
	})

	s.Run("ballot persists across retrieval", func() {
		e, err := s.svc.GetByCode(s.ctx, "EC01")
		s.Require().NoError(err)
		s.True(e.Position("pres").Voted("10012006"))
	})
}
