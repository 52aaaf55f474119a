package chathub_test

import (
	"sync/atomic"

	"dmchat/backend/internal/models"

	"github.com/google/uuid"
)

type MockClient struct {
	handleID    string
	userID      uint
	failWith    error
	panicOnPush bool
	closed      atomic.Bool
	RecvChannel chan models.OutboundEvent
}

func newMockClient(userID uint) *MockClient {
	return &MockClient{
		handleID:    uuid.NewString(),
		userID:      userID,
		RecvChannel: make(chan models.OutboundEvent, 64),
	}
}

func (c *MockClient) HandleID() string { return c.handleID }

func (c *MockClient) GetUserID() uint { return c.userID }

func (c *MockClient) Push(ev models.OutboundEvent) error {
	if c.panicOnPush {
		panic("broken handle")
	}
	if c.failWith != nil {
		return c.failWith
	}
	c.RecvChannel <- ev
	return nil
}

func (c *MockClient) Close() {
	c.closed.Store(true)
}

// received drains whatever has been pushed so far.
func (c *MockClient) received() []models.Message {
	var out []models.Message
	for {
		select {
		case ev := <-c.RecvChannel:
			out = append(out, ev.Message)
		default:
			return out
		}
	}
}
