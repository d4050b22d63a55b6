package services

import (
	"context"
	"log/slog"
	"time"

	"recipe-blog-cms/filter"
	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"
	"recipe-blog-cms/storage"
)

type RecipeService interface {
	// GetRecipes returns the published collection narrowed by state.
	GetRecipes(ctx context.Context, state filter.State) ([]models.RecipeView, error)
	GetRecipe(ctx context.Context, slug string) (*models.RecipeView, error)
}

type recipeService struct {
	recipeRepo repositories.RecipeRepository
	views      *viewBuilder
	now        func() time.Time
}

func NewRecipeService(recipeRepo repositories.RecipeRepository, images storage.ImageResolver, logger *slog.Logger) RecipeService {
	return &recipeService{
		recipeRepo: recipeRepo,
		views:      newViewBuilder(images, logger),
		now:        time.Now,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, state filter.State) ([]models.RecipeView, error) {
	recipes, err := s.recipeRepo.GetPublished(ctx, s.now())
	if err != nil {
		return nil, models.NewBackendError("failed to load recipes", err)
	}
	views, err := s.views.build(ctx, recipes)
	if err != nil {
		return nil, err
	}
	return filter.Apply(views, state), nil
}

func (s *recipeService) GetRecipe(ctx context.Context, slug string) (*models.RecipeView, error) {
	recipe, err := s.recipeRepo.GetPublishedBySlug(ctx, slug, s.now())
	if err != nil {
		return nil, storeError(err, "recipe", "failed to load recipe")
	}
	view, err := s.views.one(ctx, *recipe)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// viewBuilder turns stored rows into RecipeViews with resolved image URLs.
type viewBuilder struct {
	images storage.ImageResolver
	logger *slog.Logger
}

func newViewBuilder(images storage.ImageResolver, logger *slog.Logger) *viewBuilder {
	if images == nil {
		images = storage.NewBaseURLResolver("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &viewBuilder{images: images, logger: logger.With("service", "recipes")}
}

func (b *viewBuilder) build(ctx context.Context, recipes []models.Recipe) ([]models.RecipeView, error) {
	views := make([]models.RecipeView, 0, len(recipes))
	for _, r := range recipes {
		view, err := b.one(ctx, r)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// one never fails on image resolution: a recipe without a usable image
// is still shown.
func (b *viewBuilder) one(ctx context.Context, r models.Recipe) (models.RecipeView, error) {
	imageURL, err := b.images.ImageURL(ctx, r.ImageKey)
	if err != nil {
		b.logger.Warn("image url unavailable", "recipe", r.Slug, "error", err)
		imageURL = ""
	}
	view, err := models.NewRecipeView(r, imageURL)
	if err != nil {
		b.logger.Error("malformed recipe row", "recipe_id", r.ID, "error", err)
		return models.RecipeView{}, err
	}
	return view, nil
}
