package chathub_test

import (
	"context"
	"sync"
	"time"

	"dmchat/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of storage.MessageStore.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) AppendMessage(ctx context.Context, senderID, receiverID uint, text string, at time.Time) (*models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, text, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) History(ctx context.Context, userA, userB uint, limit int) ([]models.Message, error) {
	args := m.Called(ctx, userA, userB, limit)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStore) DeleteConversation(ctx context.Context, userA, userB uint) (int64, error) {
	args := m.Called(ctx, userA, userB)
	return args.Get(0).(int64), args.Error(1)
}

// memoryStore is a minimal in-process MessageStore for concurrency tests.
type memoryStore struct {
	mu     sync.Mutex
	nextID uint
	log    []models.Message
}

func (s *memoryStore) AppendMessage(_ context.Context, senderID, receiverID uint, text string, at time.Time) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	msg := models.Message{ID: s.nextID, SenderID: senderID, ReceiverID: receiverID, Text: text, CreatedAt: at}
	s.log = append(s.log, msg)
	return &msg, nil
}

func (s *memoryStore) History(_ context.Context, userA, userB uint, _ int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.log {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memoryStore) DeleteConversation(context.Context, uint, uint) (int64, error) {
	return 0, nil
}

// MockIdentities is a testify mock of chathub.IdentityChecker.
type MockIdentities struct {
	mock.Mock
}

func (m *MockIdentities) IdentityExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPresence records presence transitions.
type MockPresence struct {
	mock.Mock
}

func (m *MockPresence) SetOnline(ctx context.Context, userID uint, online bool) error {
	args := m.Called(ctx, userID, online)
	return args.Error(0)
}

func (m *MockPresence) OnlineUserIDs(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uint), args.Error(1)
}
