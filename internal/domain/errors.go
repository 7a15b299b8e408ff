package domain

import "errors"

var (
	// ErrQuizNotFound indicates a quiz ID did not resolve.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrResultNotFound indicates a result ID did not resolve.
	ErrResultNotFound = errors.New("result not found")
	// ErrUserNotFound indicates a user ID or email did not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotOwner is returned when the actor does not own the entity it
	// tries to view, update or delete.
	ErrNotOwner = errors.New("not authorized for this resource")
	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("user already exists with this email")
	// ErrInvalidCredentials keeps login failures indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
