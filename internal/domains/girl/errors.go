package girl

import "gallery-backend/internal/shared/apperror"

var (
	ErrGirlNotFound      = apperror.NotFound("GIRL_NOT_FOUND", "girl not found")
	ErrGirlAlreadyExists = apperror.AlreadyExists("GIRL_ALREADY_EXISTS", "a girl with this username or name already exists")
)
