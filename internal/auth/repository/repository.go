package repository

import (
	"context"

	"taskly-backend/internal/auth/domain"
)

// UserRepository defines data access for user documents.
// Find methods return (nil, nil) when the document does not exist.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// Save writes the full user document, merging with any existing fields.
	Save(ctx context.Context, user *domain.User) error

	// Update applies a partial field update to the user document.
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	List(ctx context.Context) ([]*domain.User, error)

	Delete(ctx context.Context, id string) error

	// AdjustTaskCount shifts the denormalized task counter by delta,
	// clamped at zero, and stamps the matching activity timestamp.
	// Read-modify-write; concurrent writers are last-writer-wins.
	AdjustTaskCount(ctx context.Context, id string, delta int) error
}

// AdminRepository defines data access for admin grant records.
type AdminRepository interface {
	// FindActiveByUserID returns the user's active admin record, if any.
	FindActiveByUserID(ctx context.Context, userID string) (*domain.Admin, error)

	// FindAnyByUserID returns the user's most recent admin record
	// regardless of its active flag, for reactivation on re-grant.
	FindAnyByUserID(ctx context.Context, userID string) (*domain.Admin, error)

	Create(ctx context.Context, admin *domain.Admin) (string, error)

	SetActive(ctx context.Context, adminID string, active bool) error
}

// SessionRepository defines data access for session documents.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (string, error)

	FindByID(ctx context.Context, id string) (*domain.Session, error)

	// SetAdmin persists the session's cached admin flag.
	SetAdmin(ctx context.Context, id string, isAdmin bool) error

	Delete(ctx context.Context, id string) error
}
