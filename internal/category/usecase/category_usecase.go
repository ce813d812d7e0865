package usecase

import (
	"context"
	"log"

	"taskly-backend/internal/category/domain"
	"taskly-backend/internal/category/repository"
)

// CategoryUsecase defines the business logic for the category catalog.
type CategoryUsecase interface {
	// List returns the catalog, seeding the default categories when the
	// collection is empty.
	List(ctx context.Context) ([]*domain.Category, error)

	Create(ctx context.Context, name, color string) (*domain.Category, error)

	// Update changes name and/or color; nil fields are untouched.
	Update(ctx context.Context, id string, name, color *string) (*domain.Category, error)

	// Delete removes a catalog entry. Tasks tagged with the category
	// keep their tag; only the catalog record goes away.
	Delete(ctx context.Context, id string) error
}

var defaultCategories = []domain.Category{
	{Name: "Work", Color: "#dc3545"},
	{Name: "Personal", Color: "#28a745"},
	{Name: "Study", Color: "#17a2b8"},
	{Name: "Health", Color: "#6610f2"},
	{Name: "Shopping", Color: "#fd7e14"},
}

type categoryUsecase struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repository.CategoryRepository) CategoryUsecase {
	return &categoryUsecase{categoryRepo: categoryRepo}
}

func (u *categoryUsecase) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}

	// Empty catalog: seed the defaults.
	seeded := make([]*domain.Category, 0, len(defaultCategories))
	for _, preset := range defaultCategories {
		category := preset
		if _, err := u.categoryRepo.Create(ctx, &category); err != nil {
			log.Printf("[Categories] Failed to seed default category %q: %v", category.Name, err)
			continue
		}
		seeded = append(seeded, &category)
	}
	return seeded, nil
}

func (u *categoryUsecase) Create(ctx context.Context, name, color string) (*domain.Category, error) {
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if color == "" {
		color = domain.DefaultColor
	}

	category := &domain.Category{Name: name, Color: color}
	if _, err := u.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (u *categoryUsecase) Update(ctx context.Context, id string, name, color *string) (*domain.Category, error) {
	category, err := u.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}

	fields := map[string]interface{}{}
	if name != nil && *name != "" {
		category.Name = *name
		fields["name"] = *name
	}
	if color != nil && *color != "" {
		category.Color = *color
		fields["color"] = *color
	}
	if len(fields) == 0 {
		return category, nil
	}

	if err := u.categoryRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return category, nil
}

func (u *categoryUsecase) Delete(ctx context.Context, id string) error {
	category, err := u.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrCategoryNotFound
	}
	return u.categoryRepo.Delete(ctx, id)
}
