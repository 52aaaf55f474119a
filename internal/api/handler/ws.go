package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin is accepted; the credential is what gates the session.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the handshake and then upgrades to a
// websocket session. The credential comes from the Authorization header or,
// for browsers that cannot set headers, the "token" query parameter. A
// failed handshake is rejected before anything is registered.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = c.Query("token")
	}
	if token == "" {
		h.fail(c, http.StatusUnauthorized, "missing_token")
		return
	}

	claims, err := h.Auth.VerifyCredential(token)
	if err != nil {
		h.fail(c, http.StatusUnauthorized, "invalid_token")
		return
	}

	// On failure Upgrade has already replied with an HTTP error.
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		glog.Errorf("websocket upgrade for user %d failed: %v", claims.UserID, err)
		return
	}

	h.Hub.NewSession(conn, claims.UserID).Run(c.Request.Context())
}
