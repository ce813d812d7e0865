package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskly-backend/internal/category/domain"
	"taskly-backend/internal/category/usecase"
)

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
	nextID     int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, category := range r.categories {
		copied := *category
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) (string, error) {
	r.nextID++
	category.ID = fmt.Sprintf("cat-%d", r.nextID)
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	stored := *category
	r.categories[category.ID] = &stored
	return category.ID, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	category, ok := r.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	if v, ok := fields["name"].(string); ok {
		category.Name = v
	}
	if v, ok := fields["color"].(string); ok {
		category.Color = v
	}
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

func TestListSeedsDefaultsWhenEmpty(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := usecase.NewCategoryUsecase(repo)

	categories, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 5)

	names := make(map[string]string)
	for _, category := range categories {
		names[category.Name] = category.Color
	}
	assert.Equal(t, "#dc3545", names["Work"])
	assert.Equal(t, "#28a745", names["Personal"])
	assert.Equal(t, "#17a2b8", names["Study"])
	assert.Equal(t, "#6610f2", names["Health"])
	assert.Equal(t, "#fd7e14", names["Shopping"])

	// The seeds are persisted, not just returned.
	assert.Len(t, repo.categories, 5)
}

func TestListDoesNotReseed(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := usecase.NewCategoryUsecase(repo)

	_, err := uc.Create(context.Background(), "Custom", "#000000")
	require.NoError(t, err)

	categories, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, "Custom", categories[0].Name)
}

func TestCreateCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := usecase.NewCategoryUsecase(repo)

	category, err := uc.Create(context.Background(), "Errands", "")
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, "Errands", category.Name)
	assert.Equal(t, domain.DefaultColor, category.Color)

	_, err = uc.Create(context.Background(), "", "#ffffff")
	assert.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestUpdateCategoryPartial(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := usecase.NewCategoryUsecase(repo)

	category, err := uc.Create(context.Background(), "Errands", "#111111")
	require.NoError(t, err)

	color := "#222222"
	updated, err := uc.Update(context.Background(), category.ID, nil, &color)
	require.NoError(t, err)
	assert.Equal(t, "Errands", updated.Name)
	assert.Equal(t, "#222222", updated.Color)

	_, err = uc.Update(context.Background(), "missing", nil, &color)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestDeleteCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := usecase.NewCategoryUsecase(repo)

	category, err := uc.Create(context.Background(), "Errands", "")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), category.ID))
	assert.NotContains(t, repo.categories, category.ID)

	err = uc.Delete(context.Background(), category.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}
