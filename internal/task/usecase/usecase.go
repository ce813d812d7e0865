package usecase

import (
	"context"
	"io"

	"taskly-backend/internal/task/domain"
)

// TaskUsecase defines the business logic for the task lifecycle.
type TaskUsecase interface {
	// CreateTask creates a task with an optional image attachment and
	// performs the denormalized bookkeeping (owner task count, category
	// side-table).
	CreateTask(ctx context.Context, userID string, in CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves a task, enforcing the owner-or-admin check.
	GetTask(ctx context.Context, userID string, isAdmin bool, taskID string) (*domain.Task, error)

	// ListUserTasks returns the user's tasks with optional category and
	// status filters ("all" or empty disables a filter).
	ListUserTasks(ctx context.Context, userID, category, status string) ([]*domain.Task, error)

	// UpdateTask applies a partial update, moving the task between
	// category side-table entries when the category changes and
	// replacing the attachment when a new image is supplied.
	UpdateTask(ctx context.Context, userID string, isAdmin bool, taskID string, in UpdateTaskInput) (*domain.Task, error)

	// DeleteTask deletes the task, its attachment, and unwinds the
	// denormalized bookkeeping.
	DeleteTask(ctx context.Context, userID string, isAdmin bool, taskID string) error

	// ListCategoryStats returns the category side-table sorted by task
	// count, descending.
	ListCategoryStats(ctx context.Context) ([]*domain.CategoryStat, error)

	// ListAllTasks returns every task annotated with its owner's email.
	ListAllTasks(ctx context.Context) ([]*domain.TaskWithOwner, error)
}

// ImageUpload is an attachment streamed from a multipart request.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// CreateTaskInput carries the task creation form fields.
type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	Urgency     string
	DueDate     string
	Image       *ImageUpload
}

// UpdateTaskInput carries a partial field set; nil fields are untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Category    *string
	Urgency     *string
	DueDate     *string
	Image       *ImageUpload
}

// ObjectStorage is the object storage surface the task lifecycle needs.
type ObjectStorage interface {
	UploadPublic(ctx context.Context, objectPath string, r io.Reader) (string, error)
	DeleteByURL(ctx context.Context, rawURL string) error
}
