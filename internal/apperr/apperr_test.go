package apperr_test

import (
	"errors"
	"testing"

	"dmchat/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStorage_WrapsBoth(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Storage("append message", cause)

	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "append message")
}

func TestStorage_NilPassesThrough(t *testing.T) {
	assert.NoError(t, apperr.Storage("noop", nil))
}

func TestValidationAndAuth(t *testing.T) {
	assert.ErrorIs(t, apperr.Validation("empty text"), apperr.ErrValidation)
	assert.NotErrorIs(t, apperr.Validation("empty text"), apperr.ErrAuth)
	assert.ErrorIs(t, apperr.Auth("missing token"), apperr.ErrAuth)
}
