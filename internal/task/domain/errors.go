package domain

import "errors"

var (
	// ErrTaskNotFound means the referenced task document does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrForbidden means the requester is neither the owner nor an admin.
	ErrForbidden = errors.New("unauthorized access")
	// ErrTitleRequired rejects task creation without a title.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus rejects statuses outside the known set.
	ErrInvalidStatus = errors.New("invalid status")
)
