package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"socialfeed/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// TokenHeader is the custom header carrying the bearer token. The API
	// contract uses this header, not the standard Authorization scheme.
	TokenHeader = "x-auth-token"
)

// AuthRequired ensures the request carries a valid token before any route
// logic runs. It is a pure gate: the token resolves to a user id only,
// never to a database lookup.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := strings.TrimSpace(ctx.GetHeader(TokenHeader))
		if token == "" {
			utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			// Bad signature and expiry are both "unauthenticated", never a server error.
			utils.Msg(ctx, http.StatusUnauthorized, "Token is not valid")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

// UserID extracts the authenticated user id placed by AuthRequired.
func UserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
