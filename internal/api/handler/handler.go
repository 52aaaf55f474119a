package handler

import (
	"errors"
	"net/http"

	"dmchat/backend/internal/apperr"
	"dmchat/backend/internal/auth"
	"dmchat/backend/internal/chathub"
	"dmchat/backend/internal/config"
	"dmchat/backend/internal/localization"
	"dmchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
)

const claimsKey = "claims"

// Handler holds everything the HTTP layer needs: the realtime hub, the auth
// collaborator and the stores behind the REST endpoints.
type Handler struct {
	Hub          *chathub.Hub
	Auth         *auth.Service
	Store        storage.Storage
	Localizer    *localization.Localizer
	HistoryLimit int
}

func NewHandler(hub *chathub.Hub, authSvc *auth.Service, store storage.Storage, l *localization.Localizer) *Handler {
	return &Handler{
		Hub:          hub,
		Auth:         authSvc,
		Store:        store,
		Localizer:    l,
		HistoryLimit: config.DefaultHistoryLimit,
	}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	authed := api.Group("", h.AuthRequired)
	authed.GET("/me", h.Me)
	authed.GET("/users", h.ListUsers)
	authed.GET("/messages/:otherId", h.GetHistory)
	authed.DELETE("/messages/:otherId", h.DeleteHistory)
	authed.DELETE("/contacts/:contactId", h.DeleteContact)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"connections":  h.Hub.Directory.Len(),
		"online_users": len(h.Hub.Directory.OnlineUserIDs()),
	})
}

// fail writes a localized {"error": ...} body.
func (h *Handler) fail(c *gin.Context, status int, key string) {
	msg := key
	if h.Localizer != nil {
		msg = h.Localizer.GetString(h.Localizer.PickLanguage(c.GetHeader("Accept-Language")), key)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// failErr maps the error taxonomy onto HTTP statuses.
func (h *Handler) failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		h.fail(c, http.StatusBadRequest, "user_not_found")
	case errors.Is(err, auth.ErrWrongPassword):
		h.fail(c, http.StatusBadRequest, "wrong_password")
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.fail(c, http.StatusBadRequest, "invalid_register")
	case errors.Is(err, apperr.ErrConflict):
		h.fail(c, http.StatusConflict, "username_taken")
	case errors.Is(err, apperr.ErrAuth):
		h.fail(c, http.StatusUnauthorized, "invalid_token")
	case errors.Is(err, apperr.ErrValidation):
		h.fail(c, http.StatusBadRequest, "invalid_request")
	default:
		glog.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		h.fail(c, http.StatusInternalServerError, "internal_error")
	}
}
