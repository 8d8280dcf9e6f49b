package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"univote/internal/election/models"
	"univote/internal/platform/middleware"
	dErrors "univote/pkg/domain-errors"
	"univote/pkg/platform/httputil"
)

// Service defines the election operations the HTTP layer depends on.
type Service interface {
	Create(ctx context.Context, req models.CreateElectionRequest) (models.Election, error)
	List(ctx context.Context) ([]models.Election, error)
	GetByCode(ctx context.Context, code string) (models.Election, error)
	Delete(ctx context.Context, code string) (string, error)
	CastVote(ctx context.Context, positionID string, req models.VoteRequest) (models.Election, error)
}

// Handler wires election endpoints to the election service.
type Handler struct {
	elections Service
	logger    *slog.Logger
}

// New creates an election Handler.
func New(elections Service, logger *slog.Logger) *Handler {
	return &Handler{elections: elections, logger: logger}
}

// Register mounts the election routes. Voting is its own route, deliberately
// independent of the elections CRUD dispatch.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.ContentTypeJSON)
		g.Post("/elections", h.handleCreate)
		g.Get("/elections", h.handleRetrieve)
		g.Delete("/elections", h.handleDelete)
		g.Post("/elections/vote", h.handleVote)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateElectionRequest
	if err := httputil.DecodeJSON(r, &req, "Election information not provided!"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	election, err := h.elections.Create(ctx, req)
	if err != nil {
		h.logFailure(ctx, "create election failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, election)
}

func (h *Handler) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !r.URL.Query().Has("election_code") {
		elections, err := h.elections.List(ctx)
		if err != nil {
			h.logFailure(ctx, "list elections failed", err)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, elections)
		return
	}

	election, err := h.elections.GetByCode(ctx, r.URL.Query().Get("election_code"))
	if err != nil {
		h.logFailure(ctx, "retrieve election failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, election)
}

type deleteRequest struct {
	ElectionCode string `json:"election_code"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req deleteRequest
	if err := httputil.DecodeJSON(r, &req, "Election code not provided!"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	message, err := h.elections.Delete(ctx, req.ElectionCode)
	if err != nil {
		h.logFailure(ctx, "delete election failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.VoteRequest
	if err := httputil.DecodeJSON(r, &req, "Election information not provided!"); err != nil {
		httputil.WriteError(w, err)
		return
	}

	election, err := h.elections.CastVote(ctx, r.URL.Query().Get("position_id"), req)
	if err != nil {
		h.logFailure(ctx, "cast vote failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, election)
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
