package service

import "errors"

// Service errors. Store sentinels (store.ErrMovieNotFound and friends) pass
// through unchanged.
var (
	ErrNotReviewOwner     = errors.New("you can only modify your own reviews")
	ErrSelfReport         = errors.New("you cannot report your own review")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)
