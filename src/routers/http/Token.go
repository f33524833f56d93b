package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Token returns the bearer token of a read request. The token query
// parameter wins over the Authorization header.
func Token(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
