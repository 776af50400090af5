package db

import "errors"

// Domain-level database error sentinels.
var (
	// Share link errors
	ErrLinkNotFound     = errors.New("share link not found")
	ErrDuplicateToken   = errors.New("token already exists")
	ErrNotLinkOwner     = errors.New("share link belongs to a different owner")
	ErrLinkExpired      = errors.New("share link has expired")
	ErrViewLimitReached = errors.New("share link has reached its view limit")

	// Test record errors
	ErrRecordNotFound = errors.New("test record not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
