package handler

import (
	"net/http"
	"strings"

	"dmchat/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// Register creates an account and returns a credential for it.
func (h *Handler) Register(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid_request")
		return
	}

	res, err := h.Auth.Register(c.Request.Context(), creds)
	if err != nil {
		h.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Login exchanges username and password for a credential.
func (h *Handler) Login(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid_request")
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), creds)
	if err != nil {
		h.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AuthRequired verifies the Bearer credential and stores its claims on the context.
func (h *Handler) AuthRequired(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		h.fail(c, http.StatusUnauthorized, "missing_token")
		return
	}

	claims, err := h.Auth.VerifyCredential(token)
	if err != nil {
		h.fail(c, http.StatusUnauthorized, "invalid_token")
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

// Me echoes the identity behind the credential.
func (h *Handler) Me(c *gin.Context) {
	claims := currentClaims(c)
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": claims.UserID, "username": claims.Username}})
}

func currentClaims(c *gin.Context) *auth.Claims {
	return c.MustGet(claimsKey).(*auth.Claims)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
