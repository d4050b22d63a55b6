package repositories

import (
	"context"
	"time"

	"recipe-blog-cms/models"

	"gorm.io/gorm"
)

type NewsletterRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error
	Update(ctx context.Context, subscriber *models.NewsletterSubscriber) error
	Stats(ctx context.Context, recentSince time.Time) (models.NewsletterStats, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

// GetByEmail expects an already normalized address.
func (r *newsletterRepository) GetByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&subscriber).Error
	return &subscriber, err
}

func (r *newsletterRepository) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

func (r *newsletterRepository) Update(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	return r.db.WithContext(ctx).Save(subscriber).Error
}

func (r *newsletterRepository) Stats(ctx context.Context, recentSince time.Time) (models.NewsletterStats, error) {
	var stats models.NewsletterStats
	db := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{})

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := db.Session(&gorm.Session{}).Where("subscription_status = ?", models.SubscriptionActive).Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	if err := db.Session(&gorm.Session{}).Where("subscription_status = ?", models.SubscriptionUnsubscribed).Count(&stats.Unsubscribed).Error; err != nil {
		return stats, err
	}
	if err := db.Session(&gorm.Session{}).Where("subscribed_at >= ?", recentSince).Count(&stats.RecentCount).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
