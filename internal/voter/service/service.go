package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"univote/internal/identity"
	"univote/internal/platform/metrics"
	"univote/internal/platform/middleware"
	"univote/internal/validate"
	"univote/internal/voter/models"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/platform/sentinel"
)

// Store is the voter registry's persistence port. List returns records in
// registration order; Put inserts or wholesale-replaces by student id.
type Store interface {
	List(ctx context.Context) ([]models.Voter, error)
	Get(ctx context.Context, studentID string) (models.Voter, error)
	Put(ctx context.Context, v models.Voter) error
}

// Service owns voter records: registration, deregistration (by id or whole
// cohort), wholesale update, and filtered retrieval.
type Service struct {
	voters  Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(voters Store, opts ...Option) *Service {
	s := &Service{
		voters: voters,
		tracer: otel.Tracer("univote/voter"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// uniqueOnRegister are the fields no two voters may share.
var uniqueOnRegister = []string{"student_id", "email"}

// Register validates and persists a new voter with is_registered forced true.
// Uniqueness of student_id and email is checked against every existing record
// (skipped when the registry is empty).
func (s *Service) Register(ctx context.Context, v models.Voter) (models.Voter, error) {
	ctx, span := s.tracer.Start(ctx, "voter.Register")
	defer span.End()

	if err := v.Validate(); err != nil {
		return models.Voter{}, err
	}

	existing, err := s.voters.List(ctx)
	if err != nil {
		return models.Voter{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read voters")
	}
	if len(existing) > 0 {
		if conflicts := validate.Conflicts(uniqueOnRegister, uniqueRecords(existing), v.UniqueRecord()); len(conflicts) > 0 {
			return models.Voter{}, dErrors.WithFields(dErrors.CodeConflict, conflicts)
		}
	}

	v.IsRegistered = true
	if err := s.voters.Put(ctx, v); err != nil {
		return models.Voter{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist voter")
	}

	span.SetAttributes(attribute.String("voter.year_group", v.YearGroup()))
	s.logEvent(ctx, "voter registered", "student_id", v.StudentID)
	if s.metrics != nil {
		s.metrics.VotersRegistered.Inc()
	}
	return v, nil
}

// DeregisterResult reports a deregistration outcome: the summary message plus
// every voter whose flag was flipped.
type DeregisterResult struct {
	Message string         `json:"message"`
	Voters  []models.Voter `json:"voters"`
}

// Deregister flips is_registered to false for the voter with the given
// student id, or for every voter in a cohort. The value names a cohort iff it
// is exactly four digits and at least the founding year; anything else is
// treated as a student id and validated as one.
func (s *Service) Deregister(ctx context.Context, value string) (DeregisterResult, error) {
	ctx, span := s.tracer.Start(ctx, "voter.Deregister")
	defer span.End()

	if value == "" {
		return DeregisterResult{}, dErrors.New(dErrors.CodeValidation, "Invalid attribute!")
	}

	cohort := identity.IsYearGroup(value)
	if !cohort {
		if _, ok := identity.Parse(value); !ok {
			return DeregisterResult{}, dErrors.New(dErrors.CodeValidation, "Invalid student id!")
		}
	}
	span.SetAttributes(attribute.Bool("voter.cohort", cohort))

	voters, err := s.voters.List(ctx)
	if err != nil {
		return DeregisterResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read voters")
	}

	var updated []models.Voter
	for _, v := range voters {
		match := v.StudentID == value
		if cohort {
			match = v.YearGroup() == value
		}
		if !match {
			continue
		}
		v.IsRegistered = false
		updated = append(updated, v)
	}

	if len(updated) == 0 {
		if cohort {
			return DeregisterResult{}, dErrors.Newf(dErrors.CodeNotFound, "No registered voter in the %s year group!", value)
		}
		return DeregisterResult{}, dErrors.Newf(dErrors.CodeNotFound, "student with id %s has not been registered as a voter!", value)
	}

	// Each record's own persistence call is independent; a later failure is
	// logged but not surfaced back (the scan already committed the decision).
	for _, v := range updated {
		if err := s.voters.Put(ctx, v); err != nil {
			s.logError(ctx, "failed to persist deregistration", "student_id", v.StudentID, "error", err.Error())
		}
	}

	if s.metrics != nil {
		s.metrics.VotersDeregistered.Add(float64(len(updated)))
	}

	message := "Student with id " + value + " has been de-registered!"
	if cohort {
		message = "Users in year group " + value + " have been de-registered!"
	}
	s.logEvent(ctx, "voter deregistered", "value", value, "count", strconv.Itoa(len(updated)))
	return DeregisterResult{Message: message, Voters: updated}, nil
}

// uniqueOnUpdate intentionally excludes student_id: the record being updated
// keeps its own id, so only email can collide with another voter.
var uniqueOnUpdate = []string{"email"}

// Update wholesale-replaces the voter under the payload's student id. The
// stored target must currently be registered; a payload with is_registered
// false is rejected as an illegal deregistration path. When no record exists
// yet, Update behaves like a create.
func (s *Service) Update(ctx context.Context, v models.Voter) (models.Voter, error) {
	ctx, span := s.tracer.Start(ctx, "voter.Update")
	defer span.End()

	if v.StudentID == "" {
		return models.Voter{}, dErrors.New(dErrors.CodeValidation, "Invalid attribute!")
	}
	if _, ok := identity.Parse(v.StudentID); !ok {
		return models.Voter{}, dErrors.New(dErrors.CodeValidation, "Invalid student id!")
	}
	if err := v.Validate(); err != nil {
		return models.Voter{}, err
	}

	existing, err := s.voters.List(ctx)
	if err != nil {
		return models.Voter{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read voters")
	}
	if len(existing) > 0 {
		if conflicts := validate.Conflicts(uniqueOnUpdate, uniqueRecords(existing), v.UniqueRecord()); len(conflicts) > 0 {
			return models.Voter{}, dErrors.WithFields(dErrors.CodeConflict, conflicts)
		}
	}

	if !v.IsRegistered {
		return models.Voter{}, dErrors.New(dErrors.CodeConflict, "You cannot use update to deregister, use deregister function instead!")
	}

	stored, err := s.voters.Get(ctx, v.StudentID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		// No record yet: update acts as a create.
	case err != nil:
		return models.Voter{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read voter")
	case !stored.IsRegistered:
		return models.Voter{}, dErrors.Newf(dErrors.CodeNotFound, "Voter with id %s is not registered.", v.StudentID)
	}

	v.IsRegistered = true
	if err := s.voters.Put(ctx, v); err != nil {
		return models.Voter{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist voter")
	}

	s.logEvent(ctx, "voter updated", "student_id", v.StudentID)
	return v, nil
}

// Filters carries raw retrieval filter values; empty means absent. Filters
// apply as a narrowing intersection in this fixed attribute order.
type Filters struct {
	StudentID    string
	Firstname    string
	Lastname     string
	Email        string
	YearGroup    string
	IsRegistered string
}

func (f Filters) empty() bool {
	return f == Filters{}
}

// Retrieve returns every voter matching all filters. String filters match
// case-insensitively on exact value or prefix; year_group compares the
// derived cohort exactly. With no filters the whole registry is returned.
func (s *Service) Retrieve(ctx context.Context, f Filters) ([]models.Voter, error) {
	ctx, span := s.tracer.Start(ctx, "voter.Retrieve")
	defer span.End()

	voters, err := s.voters.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read voters")
	}
	if len(voters) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "No voter has been registered!")
	}
	if f.empty() {
		return voters, nil
	}

	result := voters
	if f.StudentID != "" {
		if _, ok := identity.Parse(f.StudentID); !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "Student ID is not valid.")
		}
		result = filterString(result, f.StudentID, func(v models.Voter) string { return v.StudentID })
	}
	if f.Firstname != "" {
		if !validate.Alpha(f.Firstname) {
			return nil, dErrors.New(dErrors.CodeValidation, "Firstname must be a string.")
		}
		result = filterString(result, f.Firstname, func(v models.Voter) string { return v.Firstname })
	}
	if f.Lastname != "" {
		if !validate.Alpha(f.Lastname) {
			return nil, dErrors.New(dErrors.CodeValidation, "Lastname must be a string.")
		}
		result = filterString(result, f.Lastname, func(v models.Voter) string { return v.Lastname })
	}
	if f.Email != "" {
		if !validate.InstitutionEmail(f.Email) {
			return nil, dErrors.New(dErrors.CodeValidation, "Email must be a valid Ashesi email address.")
		}
		result = filterString(result, f.Email, func(v models.Voter) string { return v.Email })
	}
	if f.YearGroup != "" {
		year, err := strconv.Atoi(f.YearGroup)
		if err != nil || year < identity.FirstYearGroup {
			return nil, dErrors.New(dErrors.CodeValidation, "Student year group is invalid.")
		}
		result = filter(result, func(v models.Voter) bool { return v.YearGroup() == f.YearGroup })
	}
	if f.IsRegistered != "" {
		want, err := validate.ParseBool(f.IsRegistered)
		if err != nil {
			return nil, err
		}
		result = filter(result, func(v models.Voter) bool { return v.IsRegistered == want })
	}

	if len(result) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "No voter found with the provided details")
	}
	return result, nil
}

// AllRegistered reports whether every given student id belongs to a
// currently-registered voter. The vote transition uses it to check ballot and
// candidate identities together.
func (s *Service) AllRegistered(ctx context.Context, studentIDs []string) (bool, error) {
	voters, err := s.voters.List(ctx)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read voters")
	}

	remaining := make(map[string]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		remaining[id] = struct{}{}
	}
	for _, v := range voters {
		if !v.IsRegistered {
			continue
		}
		delete(remaining, v.StudentID)
		if len(remaining) == 0 {
			return true, nil
		}
	}
	return len(remaining) == 0, nil
}

func filterString(voters []models.Voter, value string, field func(models.Voter) string) []models.Voter {
	want := strings.ToLower(value)
	return filter(voters, func(v models.Voter) bool {
		got := strings.ToLower(field(v))
		return got == want || strings.HasPrefix(got, want)
	})
}

func filter(voters []models.Voter, keep func(models.Voter) bool) []models.Voter {
	var out []models.Voter
	for _, v := range voters {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func uniqueRecords(voters []models.Voter) []validate.Record {
	records := make([]validate.Record, 0, len(voters))
	for _, v := range voters {
		records = append(records, v.UniqueRecord())
	}
	return records
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

func (s *Service) logError(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	s.logger.ErrorContext(ctx, event, attributes...)
}
