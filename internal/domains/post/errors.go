package post

import "gallery-backend/internal/shared/apperror"

var (
	ErrPostNotFound      = apperror.NotFound("POST_NOT_FOUND", "post not found")
	ErrContentNotFound   = apperror.NotFound("CONTENT_NOT_FOUND", "content item not found in post")
	ErrPostAlreadyExists = apperror.AlreadyExists("POST_ALREADY_EXISTS", "a post with this title already exists")
)
