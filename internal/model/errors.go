package model

import "errors"

var (
	// ErrDocumentNotFound is returned when a document is not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyUpdate is returned when a document update contains no fields.
	ErrEmptyUpdate = errors.New("update contains no fields")

	// ErrForbidden is returned when a user accesses a document they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrDocumentLimit is returned when the maximum number of documents per user is reached.
	ErrDocumentLimit = errors.New("document limit exceeded")
)
