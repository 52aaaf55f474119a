// Package auth is the identity collaborator of the chat core: it registers
// and logs in accounts, issues credentials and turns them back into
// identities for the websocket handshake and REST calls.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"dmchat/backend/internal/apperr"
	"dmchat/backend/internal/config"
	"dmchat/backend/internal/models"
	"dmchat/backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
)

var validate = validator.New()

var (
	ErrInvalidCredentials = apperr.Validation("username is required and password must have at least 6 characters")
	ErrUserNotFound       = apperr.Validation("user not found")
	ErrWrongPassword      = apperr.Validation("wrong password")
)

// Credentials is the body of both register and login requests.
type Credentials struct {
	Username string `json:"username" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=6"`
}

// Result is returned on successful register or login.
type Result struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Service struct {
	Users  storage.UserStore
	Tokens *TokenManager
}

func NewService(users storage.UserStore, tokens *TokenManager) *Service {
	return &Service{Users: users, Tokens: tokens}
}

// Register creates an account. The username is trimmed and cut to its
// maximum length before validation.
func (s *Service) Register(ctx context.Context, c Credentials) (*Result, error) {
	c.Username = normalizeUsername(c.Username)
	if err := validate.Struct(c); err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPassword(c.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: c.Username, PasswordHash: hash, CreatedAt: time.Now()}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	glog.Infof("registered user %d (%s)", user.ID, user.Username)

	return s.issue(user)
}

// Login checks the password of an existing account.
func (s *Service) Login(ctx context.Context, c Credentials) (*Result, error) {
	user, err := s.Users.GetUserByUsername(ctx, strings.TrimSpace(c.Username))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	ok, err := ComparePassword(c.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPassword
	}
	return s.issue(user)
}

// VerifyCredential maps a token to the identity it was issued for.
func (s *Service) VerifyCredential(token string) (*Claims, error) {
	return s.Tokens.Verify(token)
}

// IdentityExists reports whether id belongs to a registered account.
func (s *Service) IdentityExists(ctx context.Context, id uint) (bool, error) {
	return s.Users.UserExists(ctx, id)
}

func (s *Service) issue(user *models.User) (*Result, error) {
	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, User: user}, nil
}

func normalizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > config.MaxUsernameLength {
		name = string(r[:config.MaxUsernameLength])
	}
	return name
}
