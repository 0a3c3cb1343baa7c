package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository/repositorytest"
)

type sessionFixture struct {
	users    *repositorytest.FakeUsers
	journeys *repositorytest.FakeJourneys
	messages *repositorytest.FakeMessages
	usecase  *Usecase
}

func newSessionFixture() *sessionFixture {
	users := repositorytest.NewFakeUsers()
	journeys := repositorytest.NewFakeJourneys()
	messages := repositorytest.NewFakeMessages()
	return &sessionFixture{
		users:    users,
		journeys: journeys,
		messages: messages,
		usecase:  NewUsecase(users, journeys, messages),
	}
}

func strptr(s string) *string { return &s }

func TestStartSessionCreatesUserAndJourney(t *testing.T) {
	f := newSessionFixture()

	resp, err := f.usecase.StartSession(context.Background(), entity.StartSessionRequest{
		UserID:    7,
		FirstName: strptr("Ada"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.User.ID)
	assert.Equal(t, int64(7), resp.Journey.UserID)
	assert.Equal(t, 1, resp.Journey.CurrentMilestone)
	assert.Equal(t, entity.JourneyStatusInProgress, resp.Journey.Status)
	assert.False(t, resp.Resumed)
	assert.Empty(t, resp.RecentMessages)
}

func TestStartSessionResumesActiveJourney(t *testing.T) {
	f := newSessionFixture()
	user, err := f.users.CreateUser(context.Background(), 3, nil, nil)
	require.NoError(t, err)
	journey := f.journeys.Seed(entity.Journey{UserID: user.ID, CurrentMilestone: 2})

	for _, content := range []string{"first", "second"} {
		_, err := f.messages.CreateMessage(context.Background(), entity.MessageCreate{
			UserID:    user.ID,
			JourneyID: journey.ID,
			Speaker:   entity.SpeakerUser,
			Content:   content,
		})
		require.NoError(t, err)
	}

	resp, err := f.usecase.StartSession(context.Background(), entity.StartSessionRequest{UserID: user.ID})
	require.NoError(t, err)

	assert.True(t, resp.Resumed)
	assert.Equal(t, journey.ID, resp.Journey.ID)
	require.Len(t, resp.RecentMessages, 2)
	// Chronological order for the client.
	assert.Equal(t, "first", resp.RecentMessages[0].Content)
	assert.Equal(t, "second", resp.RecentMessages[1].Content)
}

func TestStartSessionIgnoresCompletedJourneys(t *testing.T) {
	f := newSessionFixture()
	user, err := f.users.CreateUser(context.Background(), 5, nil, nil)
	require.NoError(t, err)
	completed := f.journeys.Seed(entity.Journey{
		UserID: user.ID,
		Status: entity.JourneyStatusCompleted,
	})

	resp, err := f.usecase.StartSession(context.Background(), entity.StartSessionRequest{UserID: user.ID})
	require.NoError(t, err)

	assert.False(t, resp.Resumed)
	assert.NotEqual(t, completed.ID, resp.Journey.ID)
	assert.Equal(t, entity.JourneyStatusInProgress, resp.Journey.Status)
}

func TestResumeSessionRequiresExistingUser(t *testing.T) {
	f := newSessionFixture()

	_, err := f.usecase.ResumeSession(context.Background(), 42)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestResumeSessionStartsJourneyWhenMissing(t *testing.T) {
	f := newSessionFixture()
	user, err := f.users.CreateUser(context.Background(), 9, nil, nil)
	require.NoError(t, err)

	resp, err := f.usecase.ResumeSession(context.Background(), user.ID)
	require.NoError(t, err)

	assert.False(t, resp.Resumed)
	assert.Equal(t, user.ID, resp.Journey.UserID)
}

func TestInvalidateUserDropsCache(t *testing.T) {
	f := newSessionFixture()
	user, err := f.users.CreateUser(context.Background(), 2, strptr("Old"), nil)
	require.NoError(t, err)

	// Prime the cache.
	_, err = f.usecase.ResumeSession(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = f.users.UpdateUser(context.Background(), user.ID, strptr("New"), nil)
	require.NoError(t, err)
	f.usecase.InvalidateUser(user.ID)

	resp, err := f.usecase.ResumeSession(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.User.FirstName)
	assert.Equal(t, "New", *resp.User.FirstName)
}
