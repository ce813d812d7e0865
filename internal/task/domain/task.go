package domain

import "time"

// Status is the task lifecycle state. Transitions are unguarded: any
// status may be set to any other directly.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Urgency defaults. The field itself is a free string.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// DefaultCategory is assigned to tasks created without a category.
const DefaultCategory = "other"

// Task is a user-owned to-do item. Category references the side-table
// entry by name; DueDate is kept as the client-supplied string.
type Task struct {
	ID          string    `json:"id" firestore:"-"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Status      Status    `json:"status" firestore:"status"`
	UserID      string    `json:"userId" firestore:"userId"`
	Category    string    `json:"category" firestore:"category"`
	Urgency     string    `json:"urgency" firestore:"urgency"`
	DueDate     string    `json:"dueDate,omitempty" firestore:"dueDate,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// TaskWithOwner annotates a task with its owner's email for the admin
// listing.
type TaskWithOwner struct {
	*Task
	UserEmail string `json:"userEmail"`
}

// CategoryStat is a side-table entry tracking the tasks currently tagged
// with a category name. The document ID is the category name itself;
// TaskCount always equals len(TaskIDs).
type CategoryStat struct {
	Name        string    `json:"name" firestore:"name"`
	TaskIDs     []string  `json:"-" firestore:"tasks"`
	TaskCount   int       `json:"taskCount" firestore:"taskCount"`
	CreatedAt   time.Time `json:"-" firestore:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated" firestore:"lastUpdated"`
}
