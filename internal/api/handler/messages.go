package handler

import (
	"net/http"
	"strconv"

	"dmchat/backend/internal/chathub"
	"dmchat/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
)

// ListUsers returns every other account with its live status.
func (h *Handler) ListUsers(c *gin.Context) {
	me := currentClaims(c).UserID

	users, err := h.Store.ListOtherUsers(c.Request.Context(), me)
	if err != nil {
		h.failErr(c, err)
		return
	}

	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, models.UserSummary{ID: u.ID, Username: u.Username, Online: h.Hub.IsOnline(u.ID)})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GetHistory lists the conversation between the caller and :otherId.
func (h *Handler) GetHistory(c *gin.Context) {
	other, ok := chathub.ParseIdentity(c.Param("otherId"))
	if !ok {
		h.fail(c, http.StatusBadRequest, "invalid_other_id")
		return
	}

	limit := h.HistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.fail(c, http.StatusBadRequest, "invalid_request")
			return
		}
		limit = min(n, h.HistoryLimit)
	}

	messages, err := h.Store.History(c.Request.Context(), currentClaims(c).UserID, other, limit)
	if err != nil {
		h.failErr(c, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// DeleteHistory removes the conversation between the caller and :otherId
// for both participants.
func (h *Handler) DeleteHistory(c *gin.Context) {
	other, ok := chathub.ParseIdentity(c.Param("otherId"))
	if !ok {
		h.fail(c, http.StatusBadRequest, "invalid_other_id")
		return
	}

	me := currentClaims(c).UserID
	n, err := h.Store.DeleteConversation(c.Request.Context(), me, other)
	if err != nil {
		h.failErr(c, err)
		return
	}
	glog.Infof("user %d deleted conversation with %d (%d messages)", me, other, n)
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

// DeleteContact only validates its argument. There is no contacts entity;
// clients hide the contact on their side.
func (h *Handler) DeleteContact(c *gin.Context) {
	if _, ok := chathub.ParseIdentity(c.Param("contactId")); !ok {
		h.fail(c, http.StatusBadRequest, "invalid_contact_id")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
