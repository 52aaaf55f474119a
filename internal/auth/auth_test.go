package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"dmchat/backend/internal/apperr"
	"dmchat/backend/internal/auth"
	"dmchat/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UserExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) ListOtherUsers(ctx context.Context, self uint) ([]models.User, error) {
	args := m.Called(ctx, self)
	return args.Get(0).([]models.User), args.Error(1)
}

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)

	hash, err := auth.HashPassword("secret123")
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$2a$"))

	match, err := auth.ComparePassword("secret123", hash)
	req.NoError(err)
	req.True(match)

	match, err = auth.ComparePassword("wrong", hash)
	req.NoError(err)
	req.False(match)
}

func TestToken_IssueAndVerify(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue(&models.User{ID: 42, Username: "alice"})
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestToken_Rejections(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	other := auth.NewTokenManager("another-secret", time.Hour)

	foreign, err := other.Issue(&models.User{ID: 1, Username: "x"})
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// a non-positive ttl falls back to the default, so build an expired token by hand
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  1,
		"iss": "dmchat-service",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":    "",
		"garbage":  "not-a-jwt",
		"foreign":  foreign,
		"alg none": noneToken,
		"expired":  stale,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Verify(token)
			assert.ErrorIs(t, err, apperr.ErrAuth)
		})
	}
}

func TestRegister(t *testing.T) {
	users := new(MockUserStore)
	svc := auth.NewService(users, auth.NewTokenManager("k", time.Hour))

	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == strings.Repeat("a", 20) && u.PasswordHash != "secret1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 7
	}).Return(nil).Once()

	res, err := svc.Register(context.Background(), auth.Credentials{
		Username: "  " + strings.Repeat("a", 25) + "  ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, res.User.ID)
	assert.NotEmpty(t, res.Token)

	claims, err := svc.VerifyCredential(res.Token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	users.AssertExpectations(t)
}

func TestRegister_ValidationAndConflict(t *testing.T) {
	users := new(MockUserStore)
	svc := auth.NewService(users, auth.NewTokenManager("k", time.Hour))

	_, err := svc.Register(context.Background(), auth.Credentials{Username: "   ", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Register(context.Background(), auth.Credentials{Username: "bob", Password: "short"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	users.On("CreateUser", mock.Anything, mock.Anything).Return(apperr.ErrConflict).Once()
	_, err = svc.Register(context.Background(), auth.Credentials{Username: "bob", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLogin(t *testing.T) {
	users := new(MockUserStore)
	svc := auth.NewService(users, auth.NewTokenManager("k", time.Hour))

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	users.On("GetUserByUsername", mock.Anything, "carol").Return(&models.User{ID: 3, Username: "carol", PasswordHash: hash}, nil)
	users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, apperr.ErrNotFound)

	res, err := svc.Login(context.Background(), auth.Credentials{Username: " carol ", Password: "secret1"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.User.ID)

	_, err = svc.Login(context.Background(), auth.Credentials{Username: "carol", Password: "nope!!"})
	assert.ErrorIs(t, err, auth.ErrWrongPassword)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Login(context.Background(), auth.Credentials{Username: "ghost", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestIdentityExists(t *testing.T) {
	users := new(MockUserStore)
	svc := auth.NewService(users, auth.NewTokenManager("k", time.Hour))
	users.On("UserExists", mock.Anything, uint(5)).Return(true, nil)

	ok, err := svc.IdentityExists(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, ok)
}
