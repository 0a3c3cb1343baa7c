package chat

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
	usecase   ChatUsecase
	validator *validator.Validator
}

func NewHandler(usecase ChatUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// SendMessage handles POST /messages - one full conversation turn
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SendMessage")

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateSendMessage(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctx = logger.AddFields(ctx,
		zap.Int64("user_id", req.UserID),
		zap.Int64("journey_id", req.JourneyID),
	)
	ctxzap.Info(ctx, "processing chat message", zap.Int("content_len", len(req.Content)))

	resp, err := h.usecase.ProcessMessage(ctx, req.UserID, req.JourneyID, req.Content)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chat message processed",
		zap.Int("milestone", resp.JourneyState.Milestone),
		zap.String("status", string(resp.JourneyState.Status)),
		zap.String("extraction", string(resp.Extraction)),
	)
	response.Success(w, resp)
}

// ListAllMessages handles GET /messages/all - admin dashboard listing
func (h *Handler) ListAllMessages(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListAllMessages")

	limit, offset := pagination(r, 100)

	messages, err := h.usecase.ListAllMessages(ctx, limit, offset)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "messages listed successfully", zap.Int("count", len(messages)))
	response.Success(w, messages)
}

// ListJourneyMessages handles GET /messages/{journey_id}
func (h *Handler) ListJourneyMessages(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListJourneyMessages")

	journeyID, err := strconv.ParseInt(chi.URLParam(r, "journey_id"), 10, 64)
	if err != nil {
		ctxzap.Warn(ctx, "invalid journey id", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid journey id")
		return
	}
	ctx = logger.WithJourney(ctx, journeyID)

	limit, _ := pagination(r, 50)

	messages, err := h.usecase.ListJourneyMessages(ctx, journeyID, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "journey messages listed successfully", zap.Int("count", len(messages)))
	response.Success(w, messages)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))
	response.FromError(w, err)
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
