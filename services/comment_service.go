package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"
)

type CommentService interface {
	GetComments(ctx context.Context, recipeSlug string) ([]models.Comment, error)
	CreateComment(ctx context.Context, recipeSlug string, userID uint, content string) (*models.Comment, error)
	// DeleteComment removes a comment on behalf of userID, who must be its author.
	DeleteComment(ctx context.Context, commentID, userID uint) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	recipeRepo  repositories.RecipeRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewCommentService(commentRepo repositories.CommentRepository, recipeRepo repositories.RecipeRepository, logger *slog.Logger) CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
		logger:      logger.With("service", "comments"),
		now:         time.Now,
	}
}

// ValidateComment trims content and enforces the minimum length.
func ValidateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < models.MinCommentLength {
		return "", models.NewValidationError("content", "comment must be at least 3 characters")
	}
	return content, nil
}

func (s *commentService) GetComments(ctx context.Context, recipeSlug string) ([]models.Comment, error) {
	recipe, err := s.recipeRepo.GetPublishedBySlug(ctx, recipeSlug, s.now())
	if err != nil {
		return nil, storeError(err, "recipe", "failed to load recipe")
	}
	comments, err := s.commentRepo.GetByRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, models.NewBackendError("failed to load comments", err)
	}
	return comments, nil
}

func (s *commentService) CreateComment(ctx context.Context, recipeSlug string, userID uint, content string) (*models.Comment, error) {
	content, err := ValidateComment(content)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.GetPublishedBySlug(ctx, recipeSlug, s.now())
	if err != nil {
		return nil, storeError(err, "recipe", "failed to load recipe")
	}

	comment := &models.Comment{RecipeID: recipe.ID, UserID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewBackendError("failed to post comment", err)
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return storeError(err, "comment", "failed to load comment")
	}
	if !comment.OwnedBy(userID) {
		s.logger.Warn("rejected comment delete by non-author", "comment_id", commentID, "user_id", userID)
		return models.ErrNotCommentOwner
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return models.NewBackendError("failed to delete comment", err)
	}
	return nil
}
