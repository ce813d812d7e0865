package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskly-backend/internal/auth/domain"
)

const sessionsCollection = "sessions"

// firestoreSessionRepository implements SessionRepository on Firestore.
type firestoreSessionRepository struct {
	client *firestore.Client
}

func NewSessionRepository(client *firestore.Client) SessionRepository {
	return &firestoreSessionRepository{client: client}
}

func (r *firestoreSessionRepository) Create(ctx context.Context, session *domain.Session) (string, error) {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	ref := r.client.Collection(sessionsCollection).NewDoc()
	if _, err := ref.Set(ctx, session); err != nil {
		return "", err
	}
	session.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	doc, err := r.client.Collection(sessionsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	var session domain.Session
	if err := doc.DataTo(&session); err != nil {
		return nil, err
	}
	session.ID = doc.Ref.ID
	return &session, nil
}

func (r *firestoreSessionRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	_, err := r.client.Collection(sessionsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isAdmin", Value: isAdmin},
	})
	return err
}

func (r *firestoreSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(sessionsCollection).Doc(id).Delete(ctx)
	return err
}
