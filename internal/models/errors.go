package models

import "errors"

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already exists")
	// ErrUsernameTaken is returned when the username is already taken.
	ErrUsernameTaken = errors.New("username already exists")
)
