package repositories

import (
	"context"
	"time"

	"recipe-blog-cms/models"

	"gorm.io/gorm"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetPublished(ctx context.Context, now time.Time) ([]models.Recipe, error)
	GetPublishedByCategory(ctx context.Context, categoryID uint, now time.Time) ([]models.Recipe, error)
	GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.Recipe, error)
	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context, now time.Time) (int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) published(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name asc") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		Where("recipes.published_at IS NOT NULL AND recipes.published_at <= ?", now)
}

// GetPublished returns every visible recipe, newest first.
func (r *recipeRepository) GetPublished(ctx context.Context, now time.Time) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.published(ctx, now).Order("recipes.published_at desc, recipes.id asc").Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) GetPublishedByCategory(ctx context.Context, categoryID uint, now time.Time) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.published(ctx, now).
		Joins("JOIN recipe_categories rc ON rc.recipe_id = recipes.id").
		Where("rc.category_id = ?", categoryID).
		Order("recipes.published_at desc, recipes.id asc").
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.published(ctx, now).Where("recipes.slug = ?", slug).First(&recipe).Error
	return &recipe, err
}

func (r *recipeRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).Count(&total).Error
	return total, err
}

func (r *recipeRepository) CountPublished(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("published_at IS NOT NULL AND published_at <= ?", now).
		Count(&total).Error
	return total, err
}
