package controllers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"socialfeed/models"
	"socialfeed/utils"
)

// UserController handles account registration.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and responds with a freshly issued token.
// Validation failures are collected and returned as a list.
func (u *UserController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrors(ctx, "Invalid request payload")
		return
	}

	email := strings.TrimSpace(req.Email)

	var msgs []string
	if strings.TrimSpace(req.Name) == "" {
		msgs = append(msgs, "Name is required")
	}
	// ParseAddress also accepts RFC 5322 display-name forms like
	// `A <a@x.com>`; only a bare address may register.
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		msgs = append(msgs, "Please include a valid email")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "Please enter a password with 6 or more characters")
	}
	if len(msgs) > 0 {
		utils.ValidationErrors(ctx, msgs...)
		return
	}

	user, err := models.CreateUser(u.db, strings.TrimSpace(req.Name), email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			utils.ValidationErrors(ctx, "User already exists")
			return
		}
		utils.Sugar.Errorf("register failed: %v", err)
		utils.ServerError(ctx)
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
