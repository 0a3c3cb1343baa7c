package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/pkg/logger"
	"github.com/homereno/journey-backend/internal/pkg/response"
	"github.com/homereno/journey-backend/internal/pkg/validator"
)

type Handler struct {
	usecase   SessionUsecase
	validator *validator.Validator
}

func NewHandler(usecase SessionUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// StartSession handles POST /sessions - start or resume a session
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartSession")

	var req entity.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateStartSession(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx, zap.Int64("user_id", req.UserID))

	session, err := h.usecase.StartSession(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session started successfully",
		zap.Int64("journey_id", session.Journey.ID),
		zap.Bool("resumed", session.Resumed),
	)
	response.Success(w, session)
}

// ResumeSession handles GET /sessions/{user_id}
func (h *Handler) ResumeSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ResumeSession")

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		ctxzap.Warn(ctx, "invalid user id", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx = logger.AddFields(ctx, zap.Int64("user_id", userID))

	session, err := h.usecase.ResumeSession(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session resumed successfully",
		zap.Int64("journey_id", session.Journey.ID),
		zap.Bool("resumed", session.Resumed),
	)
	response.Success(w, session)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))
	response.FromError(w, err)
}
