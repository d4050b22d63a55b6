package repositories

import (
	"context"
	"time"

	"recipe-blog-cms/models"

	"gorm.io/gorm"
)

type BlogPostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetPublished(ctx context.Context, now time.Time) ([]models.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.BlogPost, error)
}

type blogPostRepository struct {
	db *gorm.DB
}

func NewBlogPostRepository(db *gorm.DB) BlogPostRepository {
	return &blogPostRepository{db: db}
}

func (r *blogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPublished omits post bodies; listings only need the excerpt.
func (r *blogPostRepository) GetPublished(ctx context.Context, now time.Time) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.db.WithContext(ctx).
		Omit("content").
		Preload("Tags").
		Where("published_at IS NOT NULL AND published_at <= ?", now).
		Order("published_at desc").
		Find(&posts).Error
	return posts, err
}

func (r *blogPostRepository) GetPublishedBySlug(ctx context.Context, slug string, now time.Time) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("slug = ? AND published_at IS NOT NULL AND published_at <= ?", slug, now).
		First(&post).Error
	return &post, err
}
