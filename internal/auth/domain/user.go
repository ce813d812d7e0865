package domain

import "time"

// User is the application-side record for an identity-provider account.
// TaskCount is a denormalized counter maintained by the task handlers.
type User struct {
	ID              string    `json:"id" firestore:"-"`
	Email           string    `json:"email" firestore:"email"`
	ProfilePicture  string    `json:"profilePicture,omitempty" firestore:"profilePicture,omitempty"`
	TaskCount       int       `json:"taskCount" firestore:"taskCount"`
	LastActive      time.Time `json:"lastActive" firestore:"lastActive"`
	CreatedAt       time.Time `json:"created_at" firestore:"created_at"`
	LastTaskCreated time.Time `json:"lastTaskCreated,omitempty" firestore:"lastTaskCreated,omitempty"`
	LastTaskDeleted time.Time `json:"lastTaskDeleted,omitempty" firestore:"lastTaskDeleted,omitempty"`

	// LegacyAdmin is the boolean admin flag written directly on the user
	// document. The Admin record mechanism supersedes it, but both
	// representations are kept for compatibility.
	LegacyAdmin bool `json:"is_admin" firestore:"is_admin"`
}

// Admin is a grant of elevated privileges to a user. Revocation flips
// Active to false; records are never physically deleted.
type Admin struct {
	ID        string    `json:"adminId" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	Active    bool      `json:"active" firestore:"active"`
	GrantedAt time.Time `json:"grantedAt" firestore:"grantedAt"`
	GrantedBy string    `json:"grantedBy,omitempty" firestore:"grantedBy,omitempty"`

	// User is the underlying user record, populated when resolved.
	User *User `json:"user,omitempty" firestore:"-"`
}

// Session is the server-side session document referenced by the bearer
// token. IsAdmin is a sticky cache: once set true it stays true until the
// session is destroyed, even if the admin record is later deactivated.
type Session struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	IsAdmin   bool      `json:"isAdmin" firestore:"isAdmin"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}
