package domain

import (
	"errors"
	"time"
)

// DefaultColor is assigned to categories created without one.
const DefaultColor = "#17a2b8"

// Category is the formal catalog entity. It is distinct from the
// name-keyed side-table the task bookkeeping maintains: the catalog is
// the curated list of categories, the side-table is a denormalized
// task-count view.
type Category struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Color     string    `json:"color" firestore:"color"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameRequired     = errors.New("name is required")
)
