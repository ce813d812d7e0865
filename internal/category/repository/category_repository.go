package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskly-backend/internal/category/domain"
)

const categoriesCollection = "categories"

// CategoryRepository defines data access for the category catalog.
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (string, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// firestoreCategoryRepository implements CategoryRepository on Firestore.
type firestoreCategoryRepository struct {
	client *firestore.Client
}

func NewCategoryRepository(client *firestore.Client) CategoryRepository {
	return &firestoreCategoryRepository{client: client}
}

func (r *firestoreCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	iter := r.client.Collection(categoriesCollection).Documents(ctx)
	defer iter.Stop()

	var categories []*domain.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var category domain.Category
		if err := doc.DataTo(&category); err != nil {
			return nil, err
		}
		category.ID = doc.Ref.ID
		categories = append(categories, &category)
	}
	return categories, nil
}

func (r *firestoreCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	doc, err := r.client.Collection(categoriesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	var category domain.Category
	if err := doc.DataTo(&category); err != nil {
		return nil, err
	}
	category.ID = doc.Ref.ID
	return &category, nil
}

func (r *firestoreCategoryRepository) Create(ctx context.Context, category *domain.Category) (string, error) {
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	ref := r.client.Collection(categoriesCollection).NewDoc()
	if _, err := ref.Set(ctx, category); err != nil {
		return "", err
	}
	category.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreCategoryRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := r.client.Collection(categoriesCollection).Doc(id).Update(ctx, updates)
	return err
}

func (r *firestoreCategoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(categoriesCollection).Doc(id).Delete(ctx)
	return err
}
