package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"univote/internal/platform/middleware"
	"univote/internal/voter/models"
	"univote/internal/voter/service"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/platform/httputil"
)

// Service defines the voter operations the HTTP layer depends on.
type Service interface {
	Register(ctx context.Context, v models.Voter) (models.Voter, error)
	Deregister(ctx context.Context, value string) (service.DeregisterResult, error)
	Update(ctx context.Context, v models.Voter) (models.Voter, error)
	Retrieve(ctx context.Context, f service.Filters) ([]models.Voter, error)
}

// Handler wires voter endpoints to the voter service.
type Handler struct {
	voters Service
	logger *slog.Logger
}

// New creates a voter Handler.
func New(voters Service, logger *slog.Logger) *Handler {
	return &Handler{voters: voters, logger: logger}
}

// Register mounts the voter routes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.ContentTypeJSON)
		g.Post("/voters", h.handleRegister)
		g.Patch("/voters", h.handleDeregister)
		g.Put("/voters", h.handleUpdate)
		g.Get("/voters", h.handleRetrieve)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var v models.Voter
	if err := httputil.DecodeJSON(r, &v, "Voter information missing!"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	registered, err := h.voters.Register(ctx, v)
	if err != nil {
		h.logFailure(ctx, "register voter failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registered)
}

// deregisterRequest accepts either a literal student id or a year-group
// cohort; the service re-derives which one the value denotes from its shape.
type deregisterRequest struct {
	StudentID string `json:"student_id"`
	YearGroup string `json:"year_group"`
}

func (h *Handler) handleDeregister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req deregisterRequest
	if err := httputil.DecodeJSON(r, &req, "Invalid attribute!"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	value := req.StudentID
	if value == "" {
		value = req.YearGroup
	}

	result, err := h.voters.Deregister(ctx, value)
	if err != nil {
		h.logFailure(ctx, "deregister voter failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var v models.Voter
	if err := httputil.DecodeJSON(r, &v, "Voter information missing!"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.voters.Update(ctx, v)
	if err != nil {
		h.logFailure(ctx, "update voter failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filters := service.Filters{
		StudentID:    q.Get("student_id"),
		Firstname:    q.Get("firstname"),
		Lastname:     q.Get("lastname"),
		Email:        q.Get("email"),
		YearGroup:    q.Get("year_group"),
		IsRegistered: q.Get("is_registered"),
	}

	voters, err := h.voters.Retrieve(ctx, filters)
	if err != nil {
		h.logFailure(ctx, "retrieve voters failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, voters)
}

func (h *Handler) logFailure(ctx context.Context, event string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, event,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, event,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}
