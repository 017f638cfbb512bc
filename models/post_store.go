package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// CreatePost stores a new post with a denormalized snapshot of the author's
// name and avatar. Likes and comments start empty.
func CreatePost(db *gorm.DB, authorID uint, text string) (*Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	author, err := GetUserByID(db, authorID)
	if err != nil {
		return nil, err
	}

	post := Post{
		UserID: authorID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := db.Create(&post).Error; err != nil {
		return nil, err
	}
	post.Likes = []Like{}
	post.Comments = []Comment{}
	return &post, nil
}

// ListPosts returns all posts newest-first with likes and comments attached.
func ListPosts(db *gorm.DB) ([]Post, error) {
	posts := []Post{}
	err := db.
		Preload("Likes", likeOrder).
		Preload("Comments", commentOrder).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	for i := range posts {
		normalizePost(&posts[i])
	}
	return posts, nil
}

// GetPost returns a single post by id.
func GetPost(db *gorm.DB, id uint) (*Post, error) {
	var post Post
	err := db.
		Preload("Likes", likeOrder).
		Preload("Comments", commentOrder).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	normalizePost(&post)
	return &post, nil
}

// DeletePost removes a post and its owned likes and comments. Only the
// author may delete it.
func DeletePost(db *gorm.DB, id, requesterID uint) error {
	var post Post
	if err := db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != requesterID {
		return ErrNotOwner
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// LikePost adds a like for requesterID and returns the post's likes
// newest-first. A user may like a given post at most once: membership is an
// existence check over every stored like, and the composite unique index
// closes the window between check and insert under concurrency.
func LikePost(db *gorm.DB, id, requesterID uint) ([]Like, error) {
	post, err := fetchPost(db, id)
	if err != nil {
		return nil, err
	}

	likes, err := likesOf(db, post.ID)
	if err != nil {
		return nil, err
	}
	for _, like := range likes {
		if like.UserID == requesterID {
			return nil, ErrAlreadyLiked
		}
	}

	if err := db.Create(&Like{PostID: post.ID, UserID: requesterID}).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return likesOf(db, post.ID)
}

// UnlikePost removes the requester's like. The delete is conditional on both
// post and user id, so a concurrent unlike simply reports ErrNotYetLiked.
func UnlikePost(db *gorm.DB, id, requesterID uint) ([]Like, error) {
	post, err := fetchPost(db, id)
	if err != nil {
		return nil, err
	}

	res := db.Where("post_id = ? AND user_id = ?", post.ID, requesterID).Delete(&Like{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotYetLiked
	}
	return likesOf(db, post.ID)
}

// AddComment appends a comment with the requester's author snapshot and
// returns the post's comments newest-first.
func AddComment(db *gorm.DB, id, requesterID uint, text string) ([]Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	post, err := fetchPost(db, id)
	if err != nil {
		return nil, err
	}
	author, err := GetUserByID(db, requesterID)
	if err != nil {
		return nil, err
	}

	comment := Comment{
		PostID: post.ID,
		UserID: requesterID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return commentsOf(db, post.ID)
}

// DeleteComment removes the comment identified by commentID after verifying
// the requester owns it. It deliberately targets the comment by its own id,
// never "the most recent comment by this user".
func DeleteComment(db *gorm.DB, postID, commentID, requesterID uint) ([]Comment, error) {
	post, err := fetchPost(db, postID)
	if err != nil {
		return nil, err
	}

	var comment Comment
	if err := db.Where("post_id = ?", post.ID).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != requesterID {
		return nil, ErrNotOwner
	}

	if err := db.Delete(&comment).Error; err != nil {
		return nil, err
	}
	return commentsOf(db, post.ID)
}

func fetchPost(db *gorm.DB, id uint) (*Post, error) {
	var post Post
	if err := db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func likesOf(db *gorm.DB, postID uint) ([]Like, error) {
	likes := []Like{}
	if err := likeOrder(db).Where("post_id = ?", postID).Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

func commentsOf(db *gorm.DB, postID uint) ([]Comment, error) {
	comments := []Comment{}
	if err := commentOrder(db).Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Newest-first, with id as tie breaker for rows created within the same tick.
func likeOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

func commentOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// normalizePost keeps empty collections serializing as [] rather than null.
func normalizePost(post *Post) {
	if post.Likes == nil {
		post.Likes = []Like{}
	}
	if post.Comments == nil {
		post.Comments = []Comment{}
	}
}
