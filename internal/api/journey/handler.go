package journey

import (
	"context"
	"encoding/json"
	"fmt"
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
	usecase   JourneyUsecase
	validator *validator.Validator
}

func NewHandler(usecase JourneyUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// CreateJourney handles POST /journeys. If the user already has an active
// journey it is returned instead of creating a second one.
func (h *Handler) CreateJourney(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateJourney")

	var req entity.CreateJourneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateCreateJourney(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	journey, err := h.usecase.CreateJourney(ctx, req.UserID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "journey created successfully",
		zap.Int64("journey_id", journey.ID),
		zap.Int64("user_id", req.UserID),
	)
	response.Created(w, journey)
}

// ListJourneys handles GET /journeys
func (h *Handler) ListJourneys(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListJourneys")

	limit, offset := pagination(r, 100)

	journeys, err := h.usecase.ListJourneys(ctx, limit, offset)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "journeys listed successfully", zap.Int("count", len(journeys)))
	response.Success(w, journeys)
}

// GetJourney handles GET /journeys/{journey_id}
func (h *Handler) GetJourney(w http.ResponseWriter, r *http.Request) {
	ctx, journeyID, ok := h.journeyContext(w, r, "GetJourney")
	if !ok {
		return
	}

	journey, err := h.usecase.GetJourney(ctx, journeyID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, journey)
}

// UpdateJourney handles PUT /journeys/{journey_id}. This is the
// administrative path: it may overwrite checkpoint values.
func (h *Handler) UpdateJourney(w http.ResponseWriter, r *http.Request) {
	ctx, journeyID, ok := h.journeyContext(w, r, "UpdateJourney")
	if !ok {
		return
	}

	var req entity.UpdateJourneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateUpdateJourney(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	journey, err := h.usecase.UpdateJourney(ctx, journeyID, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "journey updated successfully")
	response.Success(w, journey)
}

// GetActiveJourney handles GET /journeys/active/{user_id}
func (h *Handler) GetActiveJourney(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetActiveJourney")

	userID, err := parseID(r, "user_id")
	if err != nil {
		ctxzap.Warn(ctx, "invalid user id", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx = logger.AddFields(ctx, zap.Int64("user_id", userID))

	journey, err := h.usecase.GetActiveJourney(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, journey)
}

// SaveCheckpoint handles POST /journeys/{journey_id}/checkpoints/{checkpoint_name}.
// Unlike extraction, this write overwrites any existing value.
func (h *Handler) SaveCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx, journeyID, ok := h.journeyContext(w, r, "SaveCheckpoint")
	if !ok {
		return
	}

	checkpointName := chi.URLParam(r, "checkpoint_name")
	ctx = logger.AddFields(ctx, zap.String("checkpoint", checkpointName))

	var req entity.SaveCheckpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateSaveCheckpoint(checkpointName, &req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	journey, err := h.usecase.SaveCheckpoint(ctx, journeyID, checkpointName, req.Value)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "checkpoint saved successfully")
	response.Success(w, journey)
}

// AdvanceMilestone handles POST /journeys/{journey_id}/advance
func (h *Handler) AdvanceMilestone(w http.ResponseWriter, r *http.Request) {
	ctx, journeyID, ok := h.journeyContext(w, r, "AdvanceMilestone")
	if !ok {
		return
	}

	journey, advanced, err := h.usecase.AdvanceMilestone(ctx, journeyID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "milestone advance processed",
		zap.Bool("advanced", advanced),
		zap.Int("milestone", journey.CurrentMilestone),
	)
	response.Success(w, map[string]any{
		"journey":  journey,
		"advanced": advanced,
	})
}

// CompleteJourney handles POST /journeys/{journey_id}/complete
func (h *Handler) CompleteJourney(w http.ResponseWriter, r *http.Request) {
	ctx, journeyID, ok := h.journeyContext(w, r, "CompleteJourney")
	if !ok {
		return
	}

	journey, err := h.usecase.CompleteJourney(ctx, journeyID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "journey completed successfully")
	response.Success(w, journey)
}

// GetJourneyState handles GET /journeys/state/{user_id}
func (h *Handler) GetJourneyState(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetJourneyState")

	userID, err := parseID(r, "user_id")
	if err != nil {
		ctxzap.Warn(ctx, "invalid user id", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx = logger.AddFields(ctx, zap.Int64("user_id", userID))

	state, err := h.usecase.GetStateForLLM(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, state)
}

// ExportPlan handles GET /journeys/{journey_id}/plan?format=
func (h *Handler) ExportPlan(w http.ResponseWriter, r *http.Request) {
	ctx, journeyID, ok := h.journeyContext(w, r, "ExportPlan")
	if !ok {
		return
	}

	format, err := entity.ParseResultFormat(r.URL.Query().Get("format"))
	if err != nil {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", r.URL.Query().Get("format")))
		response.Error(w, http.StatusBadRequest, "format must be one of: markdown, pdf, docx")
		return
	}
	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	plan, err := h.usecase.ExportPlan(ctx, journeyID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "plan exported successfully", zap.Int("size_bytes", len(plan.Data)))
	w.Header().Set("Content-Type", plan.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", plan.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(plan.Data)
}

func (h *Handler) journeyContext(w http.ResponseWriter, r *http.Request, action string) (context.Context, int64, bool) {
	ctx := logger.WithAction(r.Context(), action)

	journeyID, err := parseID(r, "journey_id")
	if err != nil {
		ctxzap.Warn(ctx, "invalid journey id", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid journey id")
		return ctx, 0, false
	}

	return logger.WithJourney(ctx, journeyID), journeyID, true
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))
	response.FromError(w, err)
}

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
