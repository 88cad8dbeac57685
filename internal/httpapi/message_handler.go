package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/findtheone/internal/service/messaging"
)

type messageJSON struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"senderId"`
	ReceiverID uint64    `json:"receiverId"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sentAt"`
	IsRead     bool      `json:"isRead"`
	Locked     bool      `json:"locked"`
	Mine       bool      `json:"mine"`
}

func toMessageJSON(v messaging.MessageView) messageJSON {
	return messageJSON{
		ID:         v.ID,
		SenderID:   v.SenderID,
		ReceiverID: v.ReceiverID,
		Content:    v.Content,
		SentAt:     v.SentAt,
		IsRead:     v.IsRead,
		Locked:     v.Locked,
		Mine:       v.Mine,
	}
}

func toMessageList(views []messaging.MessageView) []messageJSON {
	out := make([]messageJSON, 0, len(views))
	for _, v := range views {
		out = append(out, toMessageJSON(v))
	}
	return out
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req struct {
		ReceiverID uint64 `json:"receiverId" binding:"required"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	v, err := h.gate.Send(c.Request.Context(), GetUserID(c), req.ReceiverID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageJSON(v))
}

func (h *Handler) Conversation(c *gin.Context) {
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	views, err := h.gate.Conversation(c.Request.Context(), GetUserID(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": toMessageList(views)})
}

// Unlock answers {ok, alreadyUnlocked, balance}; a shortfall is a 402 with
// coinsNeeded and currentCoins.
func (h *Handler) Unlock(c *gin.Context) {
	var req struct {
		MessageID uint64 `json:"messageId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.gate.Unlock(c.Request.Context(), req.MessageID, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"alreadyUnlocked": res.AlreadyUnlocked,
		"coinsCharged":    res.Charged,
		"balance":         res.Balance,
	})
}

func (h *Handler) ReadMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.gate.Read(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageJSON(v))
}

func (h *Handler) CanRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	can, err := h.gate.CanRead(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canRead": can})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.gate.MarkRead(c.Request.Context(), id, GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) MarkConversationRead(c *gin.Context) {
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	n, err := h.gate.MarkConversationRead(c.Request.Context(), GetUserID(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
}

func (h *Handler) Unread(c *gin.Context) {
	views, err := h.gate.Unread(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": toMessageList(views)})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.gate.UnreadCount(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
