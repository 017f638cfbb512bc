package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"socialfeed/middleware"
	"socialfeed/models"
	"socialfeed/utils"
)

const (
	postListCacheKey    = "cache:posts:list"
	postDetailCachePref = "cache:post:detail:"

	msgPostNotFound    = "Post not found"
	msgCommentNotFound = "Comment does not exist"
	msgNotAuthorized   = "User not authorized"
	msgPostRemoved     = "Post removed"
	msgAlreadyLiked    = "Post already liked"
	msgNotYetLiked     = "Post has not yet been liked"
)

// PostController manages the post/like/comment surface.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

type textRequest struct {
	Text string `json:"text"`
}

// CreatePost stores a new post for the authenticated user.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req textRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrors(ctx, "Text is required")
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	post, err := models.CreatePost(p.db, userID, utils.Sanitize(req.Text))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyText):
			utils.ValidationErrors(ctx, "Text is required")
		case errors.Is(err, models.ErrUserNotFound):
			utils.Msg(ctx, http.StatusNotFound, "User not found")
		default:
			utils.Sugar.Errorf("create post failed: %v", err)
			utils.ServerError(ctx)
		}
		return
	}

	utils.InvalidateByPrefix(postListCacheKey)

	ctx.JSON(http.StatusOK, post)
}

// ListPosts returns the whole feed newest-first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(postListCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, err := models.ListPosts(p.db)
	if err != nil {
		utils.Sugar.Errorf("list posts failed: %v", err)
		utils.ServerError(ctx)
		return
	}

	utils.CacheSetJSON(postListCacheKey, posts, time.Hour)
	ctx.JSON(http.StatusOK, posts)
}

// GetPost returns a single post with its likes and comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		return
	}

	cacheKey := postDetailCachePref + strconv.FormatUint(uint64(id), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, err := models.GetPost(p.db, id)
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
			return
		}
		utils.Sugar.Errorf("get post %d failed: %v", id, err)
		utils.ServerError(ctx)
		return
	}

	utils.CacheSetJSON(cacheKey, post, time.Hour)
	ctx.JSON(http.StatusOK, post)
}

// DeletePost removes a post; only its author may do so.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	if err := models.DeletePost(p.db, id, userID); err != nil {
		switch {
		case errors.Is(err, models.ErrPostNotFound):
			utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		case errors.Is(err, models.ErrNotOwner):
			utils.Msg(ctx, http.StatusUnauthorized, msgNotAuthorized)
		default:
			utils.Sugar.Errorf("delete post %d failed: %v", id, err)
			utils.ServerError(ctx)
		}
		return
	}

	p.invalidatePost(id)
	utils.Msg(ctx, http.StatusOK, msgPostRemoved)
}

// LikePost records a like and returns the post's likes newest-first.
func (p *PostController) LikePost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	likes, err := models.LikePost(p.db, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPostNotFound):
			utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		case errors.Is(err, models.ErrAlreadyLiked):
			utils.Msg(ctx, http.StatusBadRequest, msgAlreadyLiked)
		default:
			utils.Sugar.Errorf("like post %d failed: %v", id, err)
			utils.ServerError(ctx)
		}
		return
	}

	p.invalidatePost(id)
	ctx.JSON(http.StatusOK, likes)
}

// UnlikePost removes the requester's like and returns the remaining likes.
func (p *PostController) UnlikePost(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	likes, err := models.UnlikePost(p.db, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPostNotFound):
			utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		case errors.Is(err, models.ErrNotYetLiked):
			utils.Msg(ctx, http.StatusBadRequest, msgNotYetLiked)
		default:
			utils.Sugar.Errorf("unlike post %d failed: %v", id, err)
			utils.ServerError(ctx)
		}
		return
	}

	p.invalidatePost(id)
	ctx.JSON(http.StatusOK, likes)
}

// CreateComment appends a comment and returns the post's comments newest-first.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req textRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrors(ctx, "Text is required")
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	comments, err := models.AddComment(p.db, id, userID, utils.Sanitize(req.Text))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyText):
			utils.ValidationErrors(ctx, "Text is required")
		case errors.Is(err, models.ErrPostNotFound):
			utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		case errors.Is(err, models.ErrUserNotFound):
			utils.Msg(ctx, http.StatusNotFound, "User not found")
		default:
			utils.Sugar.Errorf("comment on post %d failed: %v", id, err)
			utils.ServerError(ctx)
		}
		return
	}

	p.invalidatePost(id)
	ctx.JSON(http.StatusOK, comments)
}

// DeleteComment removes a specific comment owned by the requester and
// returns the post's remaining comments.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		return
	}
	commentID, ok := parseID(ctx.Param("comment_id"))
	if !ok {
		utils.Msg(ctx, http.StatusNotFound, msgCommentNotFound)
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Msg(ctx, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	comments, err := models.DeleteComment(p.db, id, commentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPostNotFound):
			utils.Msg(ctx, http.StatusNotFound, msgPostNotFound)
		case errors.Is(err, models.ErrCommentNotFound):
			utils.Msg(ctx, http.StatusNotFound, msgCommentNotFound)
		case errors.Is(err, models.ErrNotOwner):
			utils.Msg(ctx, http.StatusUnauthorized, msgNotAuthorized)
		default:
			utils.Sugar.Errorf("delete comment %d on post %d failed: %v", commentID, id, err)
			utils.ServerError(ctx)
		}
		return
	}

	p.invalidatePost(id)
	ctx.JSON(http.StatusOK, comments)
}

func (p *PostController) invalidatePost(id uint) {
	utils.InvalidateByPrefix(postListCacheKey)
	utils.InvalidateByPrefix(postDetailCachePref + strconv.FormatUint(uint64(id), 10))
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
