package models

import "errors"

var (
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotOwner        = errors.New("requester does not own the resource")
	ErrEmptyText       = errors.New("text is required")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotYetLiked     = errors.New("post has not yet been liked")
)
