package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskly-backend/internal/auth/domain"
)

const usersCollection = "users"

// firestoreUserRepository implements UserRepository on Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

func (r *firestoreUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	var user domain.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	user.ID = doc.Ref.ID
	return &user, nil
}

func (r *firestoreUserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	return err
}

func (r *firestoreUserRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, updates)
	return err
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var users []*domain.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var user domain.User
		if err := doc.DataTo(&user); err != nil {
			return nil, err
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}
	return users, nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Delete(ctx)
	return err
}

func (r *firestoreUserRepository) AdjustTaskCount(ctx context.Context, id string, delta int) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	count := user.TaskCount + delta
	if count < 0 {
		count = 0
	}

	now := time.Now()
	fields := map[string]interface{}{"taskCount": count}
	if delta > 0 {
		fields["lastTaskCreated"] = now
	} else {
		fields["lastTaskDeleted"] = now
	}
	return r.Update(ctx, id, fields)
}
