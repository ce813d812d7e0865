package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"taskly-backend/internal/auth/domain"
)

const adminsCollection = "admins"

// firestoreAdminRepository implements AdminRepository on Firestore.
type firestoreAdminRepository struct {
	client *firestore.Client
}

func NewAdminRepository(client *firestore.Client) AdminRepository {
	return &firestoreAdminRepository{client: client}
}

func (r *firestoreAdminRepository) FindActiveByUserID(ctx context.Context, userID string) (*domain.Admin, error) {
	query := r.client.Collection(adminsCollection).
		Where("userId", "==", userID).
		Where("active", "==", true).
		Limit(1)
	return r.first(ctx, query)
}

func (r *firestoreAdminRepository) FindAnyByUserID(ctx context.Context, userID string) (*domain.Admin, error) {
	query := r.client.Collection(adminsCollection).
		Where("userId", "==", userID).
		Limit(1)
	return r.first(ctx, query)
}

func (r *firestoreAdminRepository) first(ctx context.Context, query firestore.Query) (*domain.Admin, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var admin domain.Admin
	if err := doc.DataTo(&admin); err != nil {
		return nil, err
	}
	admin.ID = doc.Ref.ID
	return &admin, nil
}

func (r *firestoreAdminRepository) Create(ctx context.Context, admin *domain.Admin) (string, error) {
	if admin.GrantedAt.IsZero() {
		admin.GrantedAt = time.Now()
	}
	ref := r.client.Collection(adminsCollection).NewDoc()
	if _, err := ref.Set(ctx, admin); err != nil {
		return "", err
	}
	admin.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreAdminRepository) SetActive(ctx context.Context, adminID string, active bool) error {
	_, err := r.client.Collection(adminsCollection).Doc(adminID).Update(ctx, []firestore.Update{
		{Path: "active", Value: active},
	})
	return err
}
