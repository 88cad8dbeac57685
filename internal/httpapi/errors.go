package httpapi

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/service/messaging"
)

// respondError writes {error, reason} with the status mapped from err.
// Unlock shortfalls also carry coinsNeeded and currentCoins.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := gin.H{
		"error":  err.Error(),
		"reason": svcErr.Reason(err),
	}
	if needed, current, ok := messaging.CoinsNeeded(err); ok {
		body["coinsNeeded"] = needed
		body["currentCoins"] = current
	}
	c.AbortWithStatusJSON(svcErr.HTTPStatus(err), body)
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, fmt.Errorf("%w: %s", svcErr.ErrInvalidArgument, msg))
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func optionalToken(c *gin.Context) *string {
	if t := c.Query("paginationToken"); t != "" {
		return &t
	}
	return nil
}

func queryLimit(c *gin.Context) int {
	n, _ := strconv.Atoi(c.Query("limit"))
	return n
}
