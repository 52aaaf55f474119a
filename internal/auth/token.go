package auth

import (
	"time"

	"dmchat/backend/internal/apperr"
	"dmchat/backend/internal/config"
	"dmchat/backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a credential: the identity plus its display name.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 credentials.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = config.TokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a credential bound to user.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    config.TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature and expiry. Every failure is an ErrAuth.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.Auth("missing token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.TokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, apperr.Auth("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperr.Auth("invalid token")
	}
	return claims, nil
}
