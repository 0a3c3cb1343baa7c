// Package repositorytest provides in-memory repository implementations for
// unit tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/homereno/journey-backend/internal/entity"
	"github.com/homereno/journey-backend/internal/repository"
)

type FakeUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]entity.User
}

var _ repository.UserRepository = &FakeUsers{}

func NewFakeUsers() *FakeUsers {
	return &FakeUsers{nextID: 1, users: make(map[int64]entity.User)}
}

func (f *FakeUsers) CreateUser(_ context.Context, id int64, firstName, lastName *string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id <= 0 {
		id = f.nextID
	}
	if id >= f.nextID {
		f.nextID = id + 1
	}
	u := entity.User{ID: id, FirstName: firstName, LastName: lastName, CreatedAt: time.Now()}
	f.users[id] = u
	return &u, nil
}

func (f *FakeUsers) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return &u, nil
}

func (f *FakeUsers) ListUsers(_ context.Context, limit, offset int) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]entity.User, 0)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, f.users[id])
	}
	return out, nil
}

func (f *FakeUsers) UpdateUser(_ context.Context, id int64, firstName, lastName *string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	if firstName != nil {
		u.FirstName = firstName
	}
	if lastName != nil {
		u.LastName = lastName
	}
	f.users[id] = u
	return &u, nil
}

func (f *FakeUsers) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return entity.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type FakeJourneys struct {
	mu       sync.Mutex
	nextID   int64
	journeys map[int64]entity.Journey
}

var _ repository.JourneyRepository = &FakeJourneys{}

func NewFakeJourneys() *FakeJourneys {
	return &FakeJourneys{nextID: 1, journeys: make(map[int64]entity.Journey)}
}

// Seed stores a journey as-is, assigning an ID when missing.
func (f *FakeJourneys) Seed(j entity.Journey) entity.Journey {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j.ID == 0 {
		j.ID = f.nextID
	}
	if j.ID >= f.nextID {
		f.nextID = j.ID + 1
	}
	if j.CurrentMilestone == 0 {
		j.CurrentMilestone = 1
	}
	if j.Status == "" {
		j.Status = entity.JourneyStatusInProgress
	}
	f.journeys[j.ID] = j
	return j
}

func (f *FakeJourneys) CreateJourney(_ context.Context, userID int64) (*entity.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j := entity.Journey{
		ID:               f.nextID,
		UserID:           userID,
		CurrentMilestone: 1,
		Status:           entity.JourneyStatusInProgress,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	f.nextID++
	f.journeys[j.ID] = j
	return &j, nil
}

func (f *FakeJourneys) GetJourneyByID(_ context.Context, id int64) (*entity.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.journeys[id]
	if !ok {
		return nil, entity.ErrJourneyNotFound
	}
	return &j, nil
}

func (f *FakeJourneys) GetActiveJourneyByUserID(_ context.Context, userID int64) (*entity.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *entity.Journey
	for id := range f.journeys {
		j := f.journeys[id]
		if j.UserID == userID && j.Status == entity.JourneyStatusInProgress {
			if found == nil || j.CreatedAt.After(found.CreatedAt) {
				found = &j
			}
		}
	}
	if found == nil {
		return nil, entity.ErrJourneyNotFound
	}
	return found, nil
}

func (f *FakeJourneys) ListJourneys(_ context.Context, limit, offset int) ([]entity.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.journeys))
	for id := range f.journeys {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]entity.Journey, 0)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, f.journeys[id])
	}
	return out, nil
}

func (f *FakeJourneys) UpdateJourney(_ context.Context, id int64, update entity.JourneyUpdate) (*entity.Journey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.journeys[id]
	if !ok {
		return nil, entity.ErrJourneyNotFound
	}
	if update.CurrentMilestone != nil {
		j.CurrentMilestone = *update.CurrentMilestone
	}
	if update.Status != nil {
		j.Status = *update.Status
	}
	if update.Room != nil {
		j.Room = update.Room
	}
	if update.RenovationPurpose != nil {
		j.RenovationPurpose = update.RenovationPurpose
	}
	if update.BudgetRange != nil {
		j.BudgetRange = update.BudgetRange
	}
	if update.Timeline != nil {
		j.Timeline = update.Timeline
	}
	if update.StylePreference != nil {
		j.StylePreference = update.StylePreference
	}
	if update.PriorityFeature != nil {
		j.PriorityFeature = update.PriorityFeature
	}
	if update.Milestone1Completed != nil {
		j.Milestone1Completed = *update.Milestone1Completed
	}
	if update.Milestone2Completed != nil {
		j.Milestone2Completed = *update.Milestone2Completed
	}
	if update.Milestone3Completed != nil {
		j.Milestone3Completed = *update.Milestone3Completed
	}
	if update.Milestone1CompletedAt != nil {
		j.Milestone1CompletedAt = update.Milestone1CompletedAt
	}
	if update.Milestone2CompletedAt != nil {
		j.Milestone2CompletedAt = update.Milestone2CompletedAt
	}
	if update.Milestone3CompletedAt != nil {
		j.Milestone3CompletedAt = update.Milestone3CompletedAt
	}
	j.UpdatedAt = time.Now()
	f.journeys[id] = j
	return &j, nil
}

func (f *FakeJourneys) SetCheckpointIfEmpty(_ context.Context, id int64, cp entity.Checkpoint, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.journeys[id]
	if !ok {
		return false, entity.ErrJourneyNotFound
	}
	if j.CheckpointValue(cp) != nil {
		return false, nil
	}
	var update entity.JourneyUpdate
	update.SetCheckpoint(cp, value)
	switch cp {
	case entity.CheckpointRoom:
		j.Room = update.Room
	case entity.CheckpointRenovationPurpose:
		j.RenovationPurpose = update.RenovationPurpose
	case entity.CheckpointBudgetRange:
		j.BudgetRange = update.BudgetRange
	case entity.CheckpointTimeline:
		j.Timeline = update.Timeline
	case entity.CheckpointStylePreference:
		j.StylePreference = update.StylePreference
	case entity.CheckpointPriorityFeature:
		j.PriorityFeature = update.PriorityFeature
	default:
		return false, entity.ErrInvalidCheckpoint
	}
	j.UpdatedAt = time.Now()
	f.journeys[id] = j
	return true, nil
}

type FakeMessages struct {
	mu       sync.Mutex
	nextID   int64
	messages []entity.Message
}

var _ repository.MessageRepository = &FakeMessages{}

func NewFakeMessages() *FakeMessages {
	return &FakeMessages{nextID: 1}
}

func (f *FakeMessages) CreateMessage(_ context.Context, msg entity.MessageCreate) (*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := entity.Message{
		ID:               f.nextID,
		UserID:           msg.UserID,
		JourneyID:        msg.JourneyID,
		Speaker:          msg.Speaker,
		Content:          msg.Content,
		CurrentMilestone: msg.CurrentMilestone,
		Timestamp:        time.Now(),
	}
	f.nextID++
	f.messages = append(f.messages, m)
	return &m, nil
}

func (f *FakeMessages) GetJourneyMessages(_ context.Context, journeyID int64, limit int) ([]entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Message, 0)
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if f.messages[i].JourneyID == journeyID {
			out = append(out, f.messages[i])
		}
	}
	return out, nil
}

func (f *FakeMessages) ListMessages(_ context.Context, limit, offset int) ([]entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Message, 0)
	skipped := 0
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, f.messages[i])
	}
	return out, nil
}

// All returns every stored message in insertion order.
func (f *FakeMessages) All() []entity.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Message, len(f.messages))
	copy(out, f.messages)
	return out
}
