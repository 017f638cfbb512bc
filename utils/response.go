package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError is a single validation failure in the shape clients expect.
type FieldError struct {
	Msg string `json:"msg"`
}

// ValidationErrors responds 400 with the collected validation failures as a
// list, never a single message.
func ValidationErrors(ctx *gin.Context, msgs ...string) {
	errs := make([]FieldError, 0, len(msgs))
	for _, m := range msgs {
		errs = append(errs, FieldError{Msg: m})
	}
	ctx.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// Msg responds with a single {"msg": ...} body at the given status.
func Msg(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, gin.H{"msg": msg})
}

// ServerError hides internal failure detail behind a generic 500 response.
// The real cause must already have been logged by the caller.
func ServerError(ctx *gin.Context) {
	ctx.String(http.StatusInternalServerError, "Server Error")
}
