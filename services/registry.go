package services

import (
	"log/slog"

	"recipe-blog-cms/identity"
	"recipe-blog-cms/mailer"
	"recipe-blog-cms/repositories"
	"recipe-blog-cms/storage"

	"gorm.io/gorm"
)

// Registry holds every service, wired once at startup.
type Registry struct {
	Auth       AuthService
	Admin      AdminService
	Recipes    RecipeService
	Categories CategoryService
	Tags       TagService
	Comments   CommentService
	Newsletter NewsletterService
	Blog       BlogService
}

type RegistryOptions struct {
	Tokens *identity.TokenIssuer
	Images storage.ImageResolver
	Mail   mailer.Sender
	AppURL string
	Logger *slog.Logger
}

func NewRegistry(db *gorm.DB, opts RegistryOptions) *Registry {
	accountRepo := repositories.NewAccountRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	newsletterRepo := repositories.NewNewsletterRepository(db)
	postRepo := repositories.NewBlogPostRepository(db)

	return &Registry{
		Auth:       NewAuthService(accountRepo, profileRepo, sessionRepo, opts.Tokens, opts.Logger),
		Admin:      NewAdminService(accountRepo, profileRepo, recipeRepo, categoryRepo, commentRepo, newsletterRepo, opts.Logger),
		Recipes:    NewRecipeService(recipeRepo, opts.Images, opts.Logger),
		Categories: NewCategoryService(categoryRepo, recipeRepo, opts.Images, opts.Logger),
		Tags:       NewTagService(tagRepo, recipeRepo, opts.Images, opts.Logger),
		Comments:   NewCommentService(commentRepo, recipeRepo, opts.Logger),
		Newsletter: NewNewsletterService(newsletterRepo, opts.Mail, opts.AppURL, opts.Logger),
		Blog:       NewBlogService(postRepo),
	}
}
