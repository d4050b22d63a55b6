package services

import (
	"context"
	"time"

	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"
)

type BlogService interface {
	GetPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPost(ctx context.Context, slug string) (*models.BlogPost, error)
}

type blogService struct {
	postRepo repositories.BlogPostRepository
	now      func() time.Time
}

func NewBlogService(postRepo repositories.BlogPostRepository) BlogService {
	return &blogService{postRepo: postRepo, now: time.Now}
}

func (s *blogService) GetPosts(ctx context.Context) ([]models.BlogPost, error) {
	posts, err := s.postRepo.GetPublished(ctx, s.now())
	if err != nil {
		return nil, models.NewBackendError("failed to load posts", err)
	}
	return posts, nil
}

func (s *blogService) GetPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, slug, s.now())
	if err != nil {
		return nil, storeError(err, "post", "failed to load post")
	}
	return post, nil
}
