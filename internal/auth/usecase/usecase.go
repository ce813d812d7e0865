package usecase

import (
	"context"
	"io"

	"taskly-backend/internal/auth/domain"
	"taskly-backend/internal/auth/dto"
)

// AuthUsecase defines authentication, session resolution and the admin
// operations on user accounts.
type AuthUsecase interface {
	// Register creates an identity-provider account and its user
	// document; returns the new user ID.
	Register(ctx context.Context, email, password string) (string, error)

	// Login verifies an identity-provider ID token, loads or creates the
	// user record, resolves admin status and establishes a session.
	Login(ctx context.Context, idToken string) (*dto.LoginResponse, error)

	// Logout destroys the session, clearing the cached admin flag.
	Logout(ctx context.Context, sessionID string) error

	// Authenticate resolves the bearer token to a live session.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)

	// AuthorizeAdmin authenticates and then requires admin privileges,
	// consulting the session's cached flag before the admin records.
	// A successful record lookup is cached back onto the session.
	AuthorizeAdmin(ctx context.Context, token string) (*domain.Session, error)

	// UploadProfilePicture replaces the user's profile picture and
	// returns the new public URL.
	UploadProfilePicture(ctx context.Context, userID, filename string, r io.Reader) (string, error)

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// DeleteAccount cascades deletion of the caller's own account and
	// destroys the session.
	DeleteAccount(ctx context.Context, session *domain.Session, password string) error

	// Admin operations.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// SetLegacyAdminFlag writes the legacy boolean admin flag directly
	// on the user document and returns the updated record.
	SetLegacyAdminFlag(ctx context.Context, userID string, isAdmin bool) (*domain.User, error)

	// UpdateUserRole grants or revokes admin privileges through the
	// Admin record mechanism.
	UpdateUserRole(ctx context.Context, grantedBy, userID string, isAdmin bool) error

	// DeleteUser cascades deletion of another user's account. Deleting
	// your own account through this path is rejected.
	DeleteUser(ctx context.Context, adminUserID, userID string) error
}

// IdentityProvider is the external identity service surface the usecase
// depends on.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
	CreateUser(ctx context.Context, email, password string) (string, error)
	GetUserEmail(ctx context.Context, uid string) (string, error)
	UpdatePassword(ctx context.Context, uid, newPassword string) error
	DeleteUser(ctx context.Context, uid string) error
}

// ObjectStorage is the object storage surface the account flows need.
type ObjectStorage interface {
	UploadPublic(ctx context.Context, objectPath string, r io.Reader) (string, error)
	DeleteByURL(ctx context.Context, rawURL string) error
}
