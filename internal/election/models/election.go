package models

import (
	"time"

	"univote/internal/validate"
)

// Candidate is a student identifier running for a position, plus the ordered
// list of voters who have cast a ballot for it. Membership is what matters:
// a student id must never appear twice, and at most one candidate per
// position may carry it.
type Candidate struct {
	CandidateID     string   `json:"candidate_id"`
	CandidateVoters []string `json:"candidate_voters"`
}

// Position is a contested role within an election.
type Position struct {
	PositionID   string      `json:"position_id"`
	PositionName string      `json:"position_name"`
	Candidates   []Candidate `json:"candidates"`
}

// Candidate returns the position's candidate with the given id, or nil.
func (p *Position) Candidate(candidateID string) *Candidate {
	for i := range p.Candidates {
		if p.Candidates[i].CandidateID == candidateID {
			return &p.Candidates[i]
		}
	}
	return nil
}

// Voted reports whether the student has already cast a ballot for any of the
// position's candidates.
func (p *Position) Voted(studentID string) bool {
	for _, c := range p.Candidates {
		for _, voter := range c.CandidateVoters {
			if voter == studentID {
				return true
			}
		}
	}
	return false
}

// Election is the composite document the election registry owns. Positions
// and candidates have no independent lifecycle.
type Election struct {
	ElectionCode      string     `json:"election_code"`
	ElectionName      string     `json:"election_name"`
	ElectionStartDate time.Time  `json:"election_startdate"`
	ElectionPeriod    float64    `json:"election_period"`
	Positions         []Position `json:"positions"`
}

// Position returns the election's position with the given id, or nil.
func (e *Election) Position(positionID string) *Position {
	for i := range e.Positions {
		if e.Positions[i].PositionID == positionID {
			return &e.Positions[i]
		}
	}
	return nil
}

// UniqueRecord exposes the election to the uniqueness checker.
func (e Election) UniqueRecord() validate.Record {
	return validate.Record{
		Key: e.ElectionCode,
		Fields: map[string]string{
			"election_code": e.ElectionCode,
			"election_name": e.ElectionName,
		},
	}
}

// NewPosition is a position as submitted at election-creation time, with raw
// candidate identifiers.
type NewPosition struct {
	PositionID   string   `json:"position_id"`
	PositionName string   `json:"position_name"`
	Candidates   []string `json:"candidates"`
}

// CreateElectionRequest is the election-creation payload.
type CreateElectionRequest struct {
	ElectionCode      string        `json:"election_code"`
	ElectionName      string        `json:"election_name"`
	ElectionStartDate time.Time     `json:"election_startdate"`
	ElectionPeriod    *float64      `json:"election_period"`
	Positions         []NewPosition `json:"positions"`
}

// Missing reports absent required keys in presentation order.
func (r CreateElectionRequest) Missing() []string {
	return validate.Missing(
		validate.Text("election_code", r.ElectionCode),
		validate.Text("election_name", r.ElectionName),
		validate.Field{Name: "election_startdate", Present: !r.ElectionStartDate.IsZero()},
		validate.Field{Name: "election_period", Present: r.ElectionPeriod != nil},
		validate.Field{Name: "positions", Present: len(r.Positions) > 0},
	)
}

// Election denormalizes the request into the stored document: every raw
// candidate identifier becomes a Candidate with an empty voter list.
func (r CreateElectionRequest) Election() Election {
	positions := make([]Position, 0, len(r.Positions))
	for _, p := range r.Positions {
		candidates := make([]Candidate, 0, len(p.Candidates))
		for _, id := range p.Candidates {
			candidates = append(candidates, Candidate{
				CandidateID:     id,
				CandidateVoters: []string{},
			})
		}
		positions = append(positions, Position{
			PositionID:   p.PositionID,
			PositionName: p.PositionName,
			Candidates:   candidates,
		})
	}
	return Election{
		ElectionCode:      r.ElectionCode,
		ElectionName:      r.ElectionName,
		ElectionStartDate: r.ElectionStartDate,
		ElectionPeriod:    *r.ElectionPeriod,
		Positions:         positions,
	}
}

// VoteRequest is a ballot: who votes, for whom, in which election. The target
// position travels as a query parameter.
type VoteRequest struct {
	ElectionCode string `json:"election_code"`
	StudentID    string `json:"student_id"`
	CandidateID  string `json:"candidate_id"`
}
