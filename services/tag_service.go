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

type TagService interface {
	GetTags(ctx context.Context) ([]models.Tag, error)
	// GetTag looks a tag up by name, ignoring case, with its published recipes.
	GetTag(ctx context.Context, name string) (*models.TagDetail, error)
	// RefreshUsageCounts recomputes how many published recipes carry each tag.
	RefreshUsageCounts(ctx context.Context) error
}

type tagService struct {
	tagRepo    repositories.TagRepository
	recipeRepo repositories.RecipeRepository
	views      *viewBuilder
	now        func() time.Time
}

func NewTagService(
	tagRepo repositories.TagRepository,
	recipeRepo repositories.RecipeRepository,
	images storage.ImageResolver,
	logger *slog.Logger,
) TagService {
	return &tagService{
		tagRepo:    tagRepo,
		recipeRepo: recipeRepo,
		views:      newViewBuilder(images, logger),
		now:        time.Now,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, models.NewBackendError("failed to load tags", err)
	}
	return tags, nil
}

func (s *tagService) GetTag(ctx context.Context, name string) (*models.TagDetail, error) {
	tag, err := s.tagRepo.GetByName(ctx, name)
	if err != nil {
		return nil, storeError(err, "tag", "failed to load tag")
	}

	recipes, err := s.recipeRepo.GetPublished(ctx, s.now())
	if err != nil {
		return nil, models.NewBackendError("failed to load tag recipes", err)
	}
	views, err := s.views.build(ctx, recipes)
	if err != nil {
		return nil, err
	}

	return &models.TagDetail{Tag: *tag, Recipes: filter.Apply(views, filter.State{Tag: tag.Name})}, nil
}

func (s *tagService) RefreshUsageCounts(ctx context.Context) error {
	counts, err := s.tagRepo.CountPublishedRecipesByTag(ctx, s.now())
	if err != nil {
		return models.NewBackendError("failed to count tag usage", err)
	}

	tags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return models.NewBackendError("failed to load tags", err)
	}

	changed := make([]models.Tag, 0, len(tags))
	for _, tag := range tags {
		if tag.UsageCount != counts[tag.ID] {
			tag.UsageCount = counts[tag.ID]
			changed = append(changed, tag)
		}
	}

	if err := s.tagRepo.BulkUpdate(ctx, changed); err != nil {
		return models.NewBackendError("failed to update tag usage", err)
	}
	return nil
}
