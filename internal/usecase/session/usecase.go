// Package session implements create-or-resume session handling: it makes
// sure the user exists, finds or starts their active journey, and returns
// recent conversation history so a client can pick up where it left off.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository"
)

const (
	recentMessageLimit = 10

	userCacheTTL     = 5 * time.Minute
	userCacheCleanup = 10 * time.Minute
)

type Usecase struct {
	users    repository.UserRepository
	journeys repository.JourneyRepository
	messages repository.MessageRepository

	// Users change rarely; a short TTL cache keeps session resumes from
	// hitting the users table on every reconnect.
	userCache *gocache.Cache
}

func NewUsecase(
	users repository.UserRepository,
	journeys repository.JourneyRepository,
	messages repository.MessageRepository,
) *Usecase {
	return &Usecase{
		users:     users,
		journeys:  journeys,
		messages:  messages,
		userCache: gocache.New(userCacheTTL, userCacheCleanup),
	}
}

// StartSession finds or creates everything a chat client needs: the user
// (created when absent), their active journey (created when absent), and the
// recent message history. Resumed reports whether an existing journey was
// picked up.
func (u *Usecase) StartSession(ctx context.Context, req entity.StartSessionRequest) (*entity.SessionResponse, error) {
	logger := ctxzap.Extract(ctx)

	user, err := u.getUserCached(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, entity.ErrUserNotFound) {
			return nil, fmt.Errorf("start session: %w", err)
		}
		user, err = u.users.CreateUser(ctx, req.UserID, req.FirstName, req.LastName)
		if err != nil {
			return nil, fmt.Errorf("start session: %w", err)
		}
		u.userCache.Set(cacheKey(user.ID), user, gocache.DefaultExpiration)
		logger.Info("created user for new session", zap.Int64("user_id", user.ID))
	}

	resumed := true
	journey, err := u.journeys.GetActiveJourneyByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, entity.ErrJourneyNotFound) {
			return nil, fmt.Errorf("start session: %w", err)
		}
		journey, err = u.journeys.CreateJourney(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("start session: %w", err)
		}
		resumed = false
		logger.Info("started new journey for session",
			zap.Int64("user_id", user.ID),
			zap.Int64("journey_id", journey.ID),
		)
	}

	recent, err := u.recentMessages(ctx, journey.ID)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	return &entity.SessionResponse{
		User:           user,
		Journey:        journey,
		RecentMessages: recent,
		Resumed:        resumed,
	}, nil
}

// ResumeSession is the lookup variant: the user must already exist. A
// missing active journey still starts a fresh one.
func (u *Usecase) ResumeSession(ctx context.Context, userID int64) (*entity.SessionResponse, error) {
	user, err := u.getUserCached(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}

	resumed := true
	journey, err := u.journeys.GetActiveJourneyByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, entity.ErrJourneyNotFound) {
			return nil, fmt.Errorf("resume session: %w", err)
		}
		journey, err = u.journeys.CreateJourney(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resume session: %w", err)
		}
		resumed = false
	}

	recent, err := u.recentMessages(ctx, journey.ID)
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}

	return &entity.SessionResponse{
		User:           user,
		Journey:        journey,
		RecentMessages: recent,
		Resumed:        resumed,
	}, nil
}

// InvalidateUser drops a user from the lookup cache after updates/deletes.
func (u *Usecase) InvalidateUser(userID int64) {
	u.userCache.Delete(cacheKey(userID))
}

func (u *Usecase) getUserCached(ctx context.Context, userID int64) (*entity.User, error) {
	if cached, ok := u.userCache.Get(cacheKey(userID)); ok {
		if user, ok := cached.(*entity.User); ok {
			return user, nil
		}
	}
	user, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.userCache.Set(cacheKey(userID), user, gocache.DefaultExpiration)
	return user, nil
}

func (u *Usecase) recentMessages(ctx context.Context, journeyID int64) ([]entity.Message, error) {
	msgs, err := u.messages.GetJourneyMessages(ctx, journeyID, recentMessageLimit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
