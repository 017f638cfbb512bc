package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"socialfeed/middleware"
	"socialfeed/models"
	"socialfeed/utils"
)

// AuthController handles credential verification and identity lookups.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies an email/password pair and issues a token. Unknown email
// and wrong password produce the same response so the endpoint does not leak
// which accounts exist.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrors(ctx, "Invalid request payload")
		return
	}

	var msgs []string
	if strings.TrimSpace(req.Email) == "" {
		msgs = append(msgs, "Please include a valid email")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		utils.ValidationErrors(ctx, msgs...)
		return
	}

	user, err := models.GetUserByEmail(a.db, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			utils.ValidationErrors(ctx, "Invalid Credentials")
			return
		}
		utils.Sugar.Errorf("login lookup failed: %v", err)
		utils.ServerError(ctx)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.ValidationErrors(ctx, "Invalid Credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.TokenTTL())
	if err != nil {
		utils.Sugar.Errorf("token issue failed for user %d: %v", user.ID, err)
		utils.ServerError(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

// Me resolves the authenticated identity to its full user record. The
// password hash never serializes.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	user, err := models.GetUserByID(a.db, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			utils.Msg(ctx, http.StatusNotFound, "User not found")
			return
		}
		utils.Sugar.Errorf("me lookup failed: %v", err)
		utils.ServerError(ctx)
		return
	}

	ctx.JSON(http.StatusOK, user)
}
