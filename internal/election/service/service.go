package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"univote/internal/election/models"
	"univote/internal/identity"
	"univote/internal/platform/metrics"
	"univote/internal/platform/middleware"
	"univote/internal/validate"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/platform/sentinel"
)

// Store is the election registry's persistence port. List returns documents
// in creation order; Put wholesale-replaces the composite document.
type Store interface {
	List(ctx context.Context) ([]models.Election, error)
	Put(ctx context.Context, e models.Election) error
	Delete(ctx context.Context, code string) error
}

// VoterRoster answers whether student identifiers belong to
// currently-registered voters. The voter registry implements it.
type VoterRoster interface {
	AllRegistered(ctx context.Context, studentIDs []string) (bool, error)
}

// Service owns election documents and the vote state transition.
type Service struct {
	elections Store
	roster    VoterRoster
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(elections Store, roster VoterRoster, opts ...Option) *Service {
	s := &Service{
		elections: elections,
		roster:    roster,
		tracer:    otel.Tracer("univote/election"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// uniqueOnCreate are the fields no two elections may share.
var uniqueOnCreate = []string{"election_code", "election_name"}

// Create validates and persists a new election, denormalizing raw candidate
// identifiers into candidates with empty voter lists. Uniqueness of code and
// name is checked only when prior elections exist.
func (s *Service) Create(ctx context.Context, req models.CreateElectionRequest) (models.Election, error) {
	ctx, span := s.tracer.Start(ctx, "election.Create")
	defer span.End()

	if missing := req.Missing(); len(missing) > 0 {
		return models.Election{}, dErrors.WithMissing(missing)
	}

	existing, err := s.elections.List(ctx)
	if err != nil {
		return models.Election{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read elections")
	}
	if len(existing) > 0 {
		records := make([]validate.Record, 0, len(existing))
		for _, e := range existing {
			records = append(records, e.UniqueRecord())
		}
		candidate := validate.Record{
			Key: req.ElectionCode,
			Fields: map[string]string{
				"election_code": req.ElectionCode,
				"election_name": req.ElectionName,
			},
		}
		if conflicts := validate.Conflicts(uniqueOnCreate, records, candidate); len(conflicts) > 0 {
			return models.Election{}, dErrors.WithFields(dErrors.CodeConflict, conflicts)
		}
	}

	e := req.Election()
	if err := s.elections.Put(ctx, e); err != nil {
		return models.Election{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist election")
	}

	span.SetAttributes(attribute.String("election.code", e.ElectionCode))
	s.logEvent(ctx, "election created", "election_code", e.ElectionCode)
	if s.metrics != nil {
		s.metrics.ElectionsCreated.Inc()
	}
	return e, nil
}

// List returns every election. Retrieving twice with no mutation in between
// yields identical results.
func (s *Service) List(ctx context.Context) ([]models.Election, error) {
	elections, err := s.elections.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read elections")
	}
	if elections == nil {
		elections = []models.Election{}
	}
	return elections, nil
}

// GetByCode returns the election with the given code.
func (s *Service) GetByCode(ctx context.Context, code string) (models.Election, error) {
	elections, err := s.elections.List(ctx)
	if err != nil {
		return models.Election{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read elections")
	}
	if len(elections) == 0 {
		return models.Election{}, dErrors.New(dErrors.CodeNotFound, "No elections have been created!")
	}
	for _, e := range elections {
		if e.ElectionCode == code {
			return e, nil
		}
	}
	return models.Election{}, dErrors.New(dErrors.CodeNotFound, "Election with requested code does not exist!")
}

// Delete removes the election with the given code.
func (s *Service) Delete(ctx context.Context, code string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "election.Delete")
	defer span.End()

	if code == "" {
		return "", dErrors.New(dErrors.CodeValidation, "Election code not provided!")
	}

	elections, err := s.elections.List(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read elections")
	}
	if len(elections) == 0 {
		return "", dErrors.New(dErrors.CodeNotFound, "No elections have been created!")
	}

	if err := s.elections.Delete(ctx, code); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "Election with requested code does not exist!")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete election")
	}

	s.logEvent(ctx, "election deleted", "election_code", code)
	return "Election with code " + code + " has been deleted successfully!", nil
}

// CastVote runs the NotVoted -> Voted transition for one
// (election, position, voter) triple. The transition is terminal: once a
// student id appears in any candidate's voter list for a position, every
// later ballot for that position is rejected, including vote switches.
func (s *Service) CastVote(ctx context.Context, positionID string, req models.VoteRequest) (models.Election, error) {
	ctx, span := s.tracer.Start(ctx, "election.CastVote")
	defer span.End()

	if positionID == "" {
		return models.Election{}, dErrors.New(dErrors.CodeValidation, "Missing election position!")
	}
	if missing := validate.Missing(
		validate.Text("student_id", req.StudentID),
		validate.Text("candidate_id", req.CandidateID),
	); len(missing) > 0 {
		return models.Election{}, dErrors.WithMissing(missing)
	}
	if _, ok := identity.Parse(req.StudentID); !ok {
		return models.Election{}, dErrors.New(dErrors.CodeValidation, "Student ID is not valid.")
	}
	if _, ok := identity.Parse(req.CandidateID); !ok {
		return models.Election{}, dErrors.New(dErrors.CodeValidation, "Candidate ID is not valid.")
	}
	if req.ElectionCode == "" {
		return models.Election{}, dErrors.New(dErrors.CodeValidation, "Election code not provided!")
	}

	registered, err := s.roster.AllRegistered(ctx, []string{req.StudentID, req.CandidateID})
	if err != nil {
		return models.Election{}, err
	}
	if !registered {
		return models.Election{}, dErrors.New(dErrors.CodeNotFound, "Voter or candidate not registered!")
	}

	elections, err := s.elections.List(ctx)
	if err != nil {
		return models.Election{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read elections")
	}
	if len(elections) == 0 {
		return models.Election{}, dErrors.New(dErrors.CodeNotFound, "No election has been created!")
	}

	var election *models.Election
	for i := range elections {
		if elections[i].ElectionCode == req.ElectionCode {
			election = &elections[i]
			break
		}
	}
	if election == nil {
		return models.Election{}, dErrors.Newf(dErrors.CodeNotFound, "Election with code %s does not exist!", req.ElectionCode)
	}

	position := election.Position(positionID)
	if position == nil {
		return models.Election{}, dErrors.Newf(dErrors.CodeNotFound, "Position with id %s does not exist in election %s!", positionID, req.ElectionCode)
	}

	candidate := position.Candidate(req.CandidateID)
	if candidate == nil {
		return models.Election{}, dErrors.Newf(dErrors.CodeNotFound, "Candidate with id %s has not been registered for the %s position!", req.CandidateID, position.PositionName)
	}

	if position.Voted(req.StudentID) {
		if s.metrics != nil {
			s.metrics.VotesRejected.Inc()
		}
		return models.Election{}, dErrors.New(dErrors.CodeForbidden, "You cannot vote twice for one position!")
	}

	candidate.CandidateVoters = append(candidate.CandidateVoters, req.StudentID)
	if err := s.elections.Put(ctx, *election); err != nil {
		return models.Election{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist vote")
	}

	span.SetAttributes(
		attribute.String("election.code", election.ElectionCode),
		attribute.String("election.position", positionID),
	)
	s.logEvent(ctx, "vote cast",
		"election_code", election.ElectionCode,
		"position_id", positionID,
	)
	if s.metrics != nil {
		s.metrics.VotesCast.Inc()
	}
	return *election, nil
}

func (s *Service) logEvent(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, event, attributes...)
}
