package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/findtheone/internal/db"
	"github.com/oggyb/findtheone/internal/service/ledger"
	"github.com/oggyb/findtheone/internal/utils/pagination"
)

func transactionJSON(t db.Transaction) gin.H {
	out := gin.H{
		"id":          t.ID,
		"type":        t.Type,
		"status":      t.Status,
		"coinAmount":  t.CoinAmount,
		"description": t.Description,
		"createdAt":   t.CreatedAt,
	}
	if t.MoneyAmount.Valid {
		out["moneyAmount"] = t.MoneyAmount.Decimal.StringFixed(2)
	}
	if t.PaymentID != "" {
		out["paymentId"] = t.PaymentID
	}
	return out
}

func (h *Handler) Balance(c *gin.Context) {
	coins, err := h.ledger.Balance(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

func (h *Handler) ListPackages(c *gin.Context) {
	pkgs := ledger.Packages()
	out := make([]gin.H, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, gin.H{
			"name":        p.Name,
			"coins":       p.Coins,
			"bonusCoins":  p.BonusCoins,
			"totalCoins":  p.TotalCoins(),
			"price":       p.Price.StringFixed(2),
			"description": p.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"packages": out})
}

func (h *Handler) Purchase(c *gin.Context) {
	var req struct {
		Package string `json:"package" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.ledger.Purchase(c.Request.Context(), GetUserID(c), req.Package)
	if err != nil {
		respondError(c, err)
		return
	}
	entries := make([]gin.H, 0, len(res.Entries))
	for _, e := range res.Entries {
		entries = append(entries, transactionJSON(e))
	}
	c.JSON(http.StatusOK, gin.H{
		"paymentId":    res.PaymentID,
		"coinsAdded":   res.Package.TotalCoins(),
		"balance":      res.Balance,
		"transactions": entries,
	})
}

func (h *Handler) Transactions(c *gin.Context) {
	txs, next, err := h.ledger.History(c.Request.Context(), GetUserID(c), optionalToken(c), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionJSON(t))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out, "nextPaginationToken": pagination.Token(next)})
}
