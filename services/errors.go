package services

import "errors"

var (
	ErrSelfFollow          = errors.New("cannot follow yourself")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAction       = errors.New("invalid follow action")
	ErrInvalidNotification = errors.New("invalid notification")
)
