package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoSession indicates no user is signed in.
	ErrNoSession = errors.New("no active session")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyLiked indicates the user already liked the trip.
	ErrAlreadyLiked = errors.New("trip already liked")
)
