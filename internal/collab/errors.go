package collab

import "errors"

var (
	// ErrUnknownFrameType is returned when a frame carries an unrecognized type.
	ErrUnknownFrameType = errors.New("unknown frame type")

	// ErrMissingUserID is returned when a frame omits the userId field.
	ErrMissingUserID = errors.New("frame missing userId")

	// ErrMissingDocumentID is returned when a frame omits the documentId field.
	ErrMissingDocumentID = errors.New("frame missing documentId")

	// ErrMissingContent is returned when an update frame omits the content field.
	ErrMissingContent = errors.New("update frame missing content")

	// ErrMissingPosition is returned when a cursor-move frame omits the position field.
	ErrMissingPosition = errors.New("cursor-move frame missing position")
)
