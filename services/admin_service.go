package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"

	"gorm.io/gorm"
)

// newsletterRecentWindow bounds the "recent" subscriber count on the dashboard.
const newsletterRecentWindow = 30 * 24 * time.Hour

type AdminService interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.UserSummary, error)
	DeleteUser(ctx context.Context, actorID, userID uint) error
}

type adminService struct {
	accountRepo    repositories.AccountRepository
	profileRepo    repositories.ProfileRepository
	recipeRepo     repositories.RecipeRepository
	categoryRepo   repositories.CategoryRepository
	commentRepo    repositories.CommentRepository
	newsletterRepo repositories.NewsletterRepository
	logger         *slog.Logger
	now            func() time.Time
}

func NewAdminService(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	recipeRepo repositories.RecipeRepository,
	categoryRepo repositories.CategoryRepository,
	commentRepo repositories.CommentRepository,
	newsletterRepo repositories.NewsletterRepository,
	logger *slog.Logger,
) AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &adminService{
		accountRepo:    accountRepo,
		profileRepo:    profileRepo,
		recipeRepo:     recipeRepo,
		categoryRepo:   categoryRepo,
		commentRepo:    commentRepo,
		newsletterRepo: newsletterRepo,
		logger:         logger.With("service", "admin"),
		now:            time.Now,
	}
}

func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	now := s.now()
	var (
		stats models.AdminStats
		err   error
	)

	if stats.Users, err = s.accountRepo.Count(ctx); err != nil {
		return nil, models.NewBackendError("failed to count users", err)
	}
	if stats.Recipes, err = s.recipeRepo.Count(ctx); err != nil {
		return nil, models.NewBackendError("failed to count recipes", err)
	}
	if stats.PublishedRecipes, err = s.recipeRepo.CountPublished(ctx, now); err != nil {
		return nil, models.NewBackendError("failed to count recipes", err)
	}
	if stats.Categories, err = s.categoryRepo.Count(ctx); err != nil {
		return nil, models.NewBackendError("failed to count categories", err)
	}
	if stats.Comments, err = s.commentRepo.Count(ctx); err != nil {
		return nil, models.NewBackendError("failed to count comments", err)
	}
	if stats.Newsletter, err = s.newsletterRepo.Stats(ctx, now.Add(-newsletterRecentWindow)); err != nil {
		return nil, models.NewBackendError("failed to load newsletter stats", err)
	}

	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, models.NewBackendError("failed to list users", err)
	}

	ids := make([]uint, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	profiles, err := s.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, models.NewBackendError("failed to list profiles", err)
	}
	byID := make(map[uint]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	users := make([]models.UserSummary, 0, len(accounts))
	for _, a := range accounts {
		var profile *models.Profile
		if p, ok := byID[a.ID]; ok {
			profile = &p
		}
		users = append(users, summarize(a, profile))
	}
	return users, nil
}

func (s *adminService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.UserSummary, error) {
	account, profile, err := createAccount(ctx, s.accountRepo, s.profileRepo, req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created by admin", "account_id", account.ID, "role", profile.Role)

	summary := summarize(*account, profile)
	return &summary, nil
}

func (s *adminService) DeleteUser(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return models.NewValidationError("id", "you cannot delete your own account")
	}
	if err := s.accountRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrorNotFound{Resource: "user"}
		}
		return models.NewBackendError("failed to delete user", err)
	}
	s.logger.Info("user deleted", "account_id", userID, "by", actorID)
	return nil
}

func summarize(account models.Account, profile *models.Profile) models.UserSummary {
	summary := models.UserSummary{
		ID:         account.ID,
		Email:      account.Email,
		NeedsSetup: profile == nil,
		CreatedAt:  account.CreatedAt,
	}
	if profile != nil {
		summary.DisplayName = profile.DisplayName
		summary.Role = profile.Role
	}
	return summary
}
