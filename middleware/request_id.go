package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialfeed/utils"
)

// RequestID tags every request with a correlation id, honoring one supplied
// by an upstream proxy, and echoes it back in the response.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(utils.ContextRequestIDKey, id)
		ctx.Header("X-Request-ID", id)
		ctx.Next()
	}
}
