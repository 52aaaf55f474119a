package config

import "time"

const (
	// Messages
	MaxMessageLength    = 500
	DefaultHistoryLimit = 200

	// Accounts
	MaxUsernameLength = 20
	MinPasswordLength = 6
	TokenTTL          = 7 * 24 * time.Hour
	TokenIssuer       = "dmchat-service"

	// Realtime
	SendBufferSize = 256
)
