package repository

import (
	"context"

	"taskly-backend/internal/task/domain"
)

// FilterAll is the sentinel filter value meaning "no filter".
const FilterAll = "all"

// TaskRepository defines data access for task documents.
// Find methods return (nil, nil) when the document does not exist.
type TaskRepository interface {
	// Create writes a new task document and assigns its generated ID.
	Create(ctx context.Context, task *domain.Task) (string, error)

	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindByUser returns the user's tasks, optionally filtered by
	// category and status. Empty string or FilterAll disables a filter.
	FindByUser(ctx context.Context, userID, category, status string) ([]*domain.Task, error)

	// Save rewrites the full task document.
	Save(ctx context.Context, task *domain.Task) error

	Delete(ctx context.Context, id string) error

	FindAll(ctx context.Context) ([]*domain.Task, error)
}

// CategoryStatsRepository maintains the name-keyed side-table of task
// membership per category. It is a denormalized view kept in sync by the
// task lifecycle; updates are read-modify-write with last-writer-wins
// semantics.
type CategoryStatsRepository interface {
	// AddTask appends the task to the category's member list, creating
	// the entry when absent. Adding an already-listed task is a no-op.
	AddTask(ctx context.Context, category, taskID string) error

	// RemoveTask drops the task from the category's member list and
	// deletes the entry outright when the list becomes empty.
	RemoveTask(ctx context.Context, category, taskID string) error

	List(ctx context.Context) ([]*domain.CategoryStat, error)
}
