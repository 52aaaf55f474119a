package chathub

import (
	"errors"

	"dmchat/backend/internal/models"
)

var (
	// ErrClientClosed is returned by Push once a handle has shut down.
	ErrClientClosed = errors.New("client closed")
	// ErrSlowClient is returned by Push when the handle's send buffer is full.
	ErrSlowClient = errors.New("client send buffer full")
)

// Client is one live connection handle bound to a single identity.
// The Directory indexes clients by identity and the Router pushes
// persisted messages to them.
type Client interface {
	// HandleID uniquely identifies this connection for the process lifetime.
	HandleID() string
	// GetUserID returns the identity the connection authenticated as.
	GetUserID() uint
	// Push queues an event for delivery without blocking. A broken or slow
	// handle reports an error instead of stalling the caller.
	Push(ev models.OutboundEvent) error
	// Close shuts the connection down. Safe to call more than once.
	Close()
}
