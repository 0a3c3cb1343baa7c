package user

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
)

type Handler struct {
	usecase UserUsecase
}

func NewHandler(usecase UserUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateUser")

	var req entity.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.usecase.CreateUser(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "user created successfully", zap.Int64("user_id", user.ID))
	response.Created(w, user)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListUsers")

	limit, offset := pagination(r, 100)

	users, err := h.usecase.ListUsers(ctx, limit, offset)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "users listed successfully", zap.Int("count", len(users)))
	response.Success(w, users)
}

// GetUser handles GET /users/{user_id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, userID, ok := h.userContext(w, r, "GetUser")
	if !ok {
		return
	}

	user, err := h.usecase.GetUser(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, user)
}

// UpdateUser handles PUT /users/{user_id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, userID, ok := h.userContext(w, r, "UpdateUser")
	if !ok {
		return
	}

	var req entity.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.usecase.UpdateUser(ctx, userID, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "user updated successfully")
	response.Success(w, user)
}

// DeleteUser handles DELETE /users/{user_id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, userID, ok := h.userContext(w, r, "DeleteUser")
	if !ok {
		return
	}

	if err := h.usecase.DeleteUser(ctx, userID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "user deleted successfully")
	response.NoContent(w)
}

func (h *Handler) userContext(w http.ResponseWriter, r *http.Request, action string) (context.Context, int64, bool) {
	ctx := logger.WithAction(r.Context(), action)

	userID, err := parseID(r, "user_id")
	if err != nil {
		ctxzap.Warn(ctx, "invalid user id", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return ctx, 0, false
	}

	return logger.AddFields(ctx, zap.Int64("user_id", userID)), userID, true
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
