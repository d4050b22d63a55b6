package services

import (
	"context"
	"log/slog"
	"time"

	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"
	"recipe-blog-cms/storage"
)

type CategoryService interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.CategoryDetail, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	recipeRepo   repositories.RecipeRepository
	views        *viewBuilder
	now          func() time.Time
}

func NewCategoryService(
	categoryRepo repositories.CategoryRepository,
	recipeRepo repositories.RecipeRepository,
	images storage.ImageResolver,
	logger *slog.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		recipeRepo:   recipeRepo,
		views:        newViewBuilder(images, logger),
		now:          time.Now,
	}
}

func (s *categoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, models.NewBackendError("failed to load categories", err)
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, slug string) (*models.CategoryDetail, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(err, "category", "failed to load category")
	}

	recipes, err := s.recipeRepo.GetPublishedByCategory(ctx, category.ID, s.now())
	if err != nil {
		return nil, models.NewBackendError("failed to load category recipes", err)
	}
	views, err := s.views.build(ctx, recipes)
	if err != nil {
		return nil, err
	}

	return &models.CategoryDetail{Category: *category, Recipes: views}, nil
}
