package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/utils/pagination"
)

type userJSON struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Gender   string `json:"gender"`
}

func toUserJSON(u db.User) userJSON {
	return userJSON{ID: u.ID, Username: u.Username, Gender: u.Gender}
}

func (h *Handler) Like(c *gin.Context) {
	var req struct {
		LikedID uint64 `json:"likedId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.engine.Like(c.Request.Context(), GetUserID(c), req.LikedID)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{"isMatch": res.IsMatch}
	if res.MatchID != 0 {
		body["matchId"] = res.MatchID
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) Dislike(c *gin.Context) {
	var req struct {
		LikedID uint64 `json:"likedId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if _, err := h.engine.Dislike(c.Request.Context(), GetUserID(c), req.LikedID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Unmatch(c *gin.Context) {
	var req struct {
		UserID uint64 `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.engine.Unmatch(c.Request.Context(), GetUserID(c), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Matches(c *gin.Context) {
	matches, err := h.engine.Matches(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		out = append(out, gin.H{
			"matchId":   m.MatchID,
			"user":      toUserJSON(m.User),
			"matchedAt": m.MatchedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"matches": out})
}

func (h *Handler) Suggestions(c *gin.Context) {
	users, next, err := h.engine.Suggestions(c.Request.Context(), GetUserID(c), optionalToken(c), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, toUserJSON(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "nextPaginationToken": pagination.Token(next)})
}

func (h *Handler) LikedYou(c *gin.Context)    { h.likers(c, false) }
func (h *Handler) NewLikedYou(c *gin.Context) { h.likers(c, true) }

func (h *Handler) likers(c *gin.Context, onlyNew bool) {
	likes, next, err := h.engine.LikedYou(c.Request.Context(), GetUserID(c), onlyNew, optionalToken(c), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(likes))
	for _, l := range likes {
		out = append(out, gin.H{"userId": l.LikerID, "likedAt": l.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"likers": out, "nextPaginationToken": pagination.Token(next)})
}

func (h *Handler) CountLikedYou(c *gin.Context) {
	n, err := h.engine.CountLikedYou(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// Stats returns the caller's rollup, or another user's with ?userId=.
func (h *Handler) Stats(c *gin.Context) {
	userID := GetUserID(c)
	if q := c.Query("userId"); q != "" {
		id, err := strconv.ParseUint(q, 10, 64)
		if err != nil || id == 0 {
			badRequest(c, "userId must be a positive integer")
			return
		}
		userID = id
	}
	st, err := h.stats.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// DevToken issues a token for an existing username. Mounted in development only.
func (h *Handler) DevToken(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.issuer.Issue(u.ID, u.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": u.ID})
}
