package repositories

import (
	"context"
	"time"

	"recipe-blog-cms/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
	BulkUpdate(ctx context.Context, tags []models.Tag) error
	CountPublishedRecipesByTag(ctx context.Context, now time.Time) (map[uint]int, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	return &tag, err
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("usage_count desc, name asc").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) BulkUpdate(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&tags).Error
}

func (r *tagRepository) CountPublishedRecipesByTag(ctx context.Context, now time.Time) (map[uint]int, error) {
	var results []struct {
		TagID uint
		Count int
	}

	query := `
		SELECT
			rt.tag_id,
			COUNT(*) as count
		FROM recipe_tags rt
		JOIN recipes r ON rt.recipe_id = r.id
		WHERE r.published_at IS NOT NULL AND r.published_at <= ?
		GROUP BY rt.tag_id
	`

	err := r.db.WithContext(ctx).Raw(query, now).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	for _, result := range results {
		counts[result.TagID] = result.Count
	}

	return counts, nil
}
