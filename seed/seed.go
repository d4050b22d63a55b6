// Package seed loads the reference content set: categories, tags, recipes,
// blog posts and an initial admin account.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recipe-blog-cms/models"
	"recipe-blog-cms/repositories"
	"recipe-blog-cms/services"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	Now           time.Time
}

type Summary struct {
	Categories int
	Tags       int
	Recipes    int
	Posts      int
	AdminID    uint
}

type recipeSeed struct {
	Title       string
	Description string
	Excerpt     string
	Difficulty  *models.Difficulty
	Prep, Cook  *int
	Servings    *int
	Categories  []string
	Tags        []string
	Featured    bool
	Trending    bool
	EditorsPick bool
	Draft       bool
	ImageKey    string
}

func difficulty(d models.Difficulty) *models.Difficulty { return &d }
func minutes(n int) *int                              { return &n }

var categorySeeds = []models.Category{
	{Name: "Breakfast", Description: "Morning plates and brunch favourites."},
	{Name: "Lunch", Description: "Light and quick midday meals."},
	{Name: "Dinner", Description: "Weeknight and weekend mains."},
	{Name: "Soups", Description: "Bowls for cold evenings."},
}

var tagSeeds = []string{"Quick", "Poultry", "Comfort", "Sweet", "Vegetarian"}

// Three Easy, two Medium and one without a stored difficulty.
var recipeSeeds = []recipeSeed{
	{Title: "Lemon Chicken", Description: "Bright weeknight dinner", Difficulty: difficulty(models.DifficultyEasy),
		Prep: minutes(10), Cook: minutes(25), Servings: minutes(4), Categories: []string{"Dinner"}, Tags: []string{"Quick", "Poultry"},
		Featured: true, ImageKey: "recipes/lemon-chicken.jpg"},
	{Title: "Noodle Soup", Description: "Classic chicken soup", Difficulty: difficulty(models.DifficultyMedium),
		Prep: minutes(20), Cook: minutes(60), Servings: minutes(6), Categories: []string{"Soups"}, Tags: []string{"Comfort"},
		Trending: true, ImageKey: "recipes/noodle-soup.jpg"},
	{Title: "Fluffy Pancakes", Description: "Weekend breakfast", Excerpt: "Better than the diner", Difficulty: difficulty(models.DifficultyEasy),
		Prep: minutes(5), Cook: minutes(15), Categories: []string{"Breakfast"}, Tags: []string{"Quick", "Sweet"}, EditorsPick: true},
	{Title: "Summer Salad", Description: "Greens and herbs", Excerpt: "Leftover chicken, sorted", Difficulty: difficulty(models.DifficultyEasy),
		Prep: minutes(15), Servings: minutes(2), Categories: []string{"Lunch", "Dinner"}, Tags: []string{"Quick"}},
	{Title: "Beef Stew", Description: "Slow cooked", Difficulty: difficulty(models.DifficultyMedium),
		Prep: minutes(25), Cook: minutes(150), Servings: minutes(6), Categories: []string{"Dinner"}, Tags: []string{"Comfort"}},
	{Title: "Tomato Toast", Description: "Simple snack", Tags: []string{"Vegetarian"}},
	{Title: "Test Kitchen Special", Description: "Still being tested", Difficulty: difficulty(models.DifficultyHard),
		Categories: []string{"Dinner"}, Draft: true},
}

var postSeeds = []models.BlogPost{
	{Title: "Five Pantry Staples Worth Keeping", Excerpt: "What we always have on the shelf.", AuthorName: "Recipe Blog",
		Content: "Good olive oil, tinned tomatoes, dried pasta, lemons and flaky salt."},
	{Title: "Why We Rest Meat", Excerpt: "A short note on juiciness.", AuthorName: "Recipe Blog",
		Content: "Resting lets the juices settle back into the fibres."},
}

// Run inserts the reference set into an empty database. A database that
// already has categories is left untouched.
func Run(ctx context.Context, db *gorm.DB, opts Options, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	categoryRepo := repositories.NewCategoryRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)
	postRepo := repositories.NewBlogPostRepository(db)

	existing, err := categoryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		logger.Info("database already seeded, skipping")
		return &Summary{}, nil
	}

	summary := &Summary{}

	categories := make(map[string]models.Category, len(categorySeeds))
	for _, c := range categorySeeds {
		c.Slug = slug.Make(c.Name)
		if err := categoryRepo.Create(ctx, &c); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		categories[c.Name] = c
		summary.Categories++
	}

	tags := make(map[string]models.Tag, len(tagSeeds))
	for _, name := range tagSeeds {
		tag := models.Tag{Name: name}
		if err := tagRepo.Create(ctx, &tag); err != nil {
			return nil, fmt.Errorf("seed tag %s: %w", name, err)
		}
		tags[name] = tag
		summary.Tags++
	}

	for i, rs := range recipeSeeds {
		recipe := models.Recipe{
			Slug:        slug.Make(rs.Title),
			Title:       rs.Title,
			Description: rs.Description,
			Excerpt:     rs.Excerpt,
			Difficulty:  rs.Difficulty,
			PrepTime:    rs.Prep,
			CookTime:    rs.Cook,
			Servings:    rs.Servings,
			Featured:    rs.Featured,
			Trending:    rs.Trending,
			EditorsPick: rs.EditorsPick,
			ImageKey:    rs.ImageKey,
		}
		if !rs.Draft {
			// Newest first keeps the listing in seed order.
			published := opts.Now.Add(-time.Duration(i+1) * time.Hour)
			recipe.PublishedAt = &published
		}
		for _, name := range rs.Categories {
			recipe.Categories = append(recipe.Categories, categories[name])
		}
		for _, name := range rs.Tags {
			recipe.Tags = append(recipe.Tags, tags[name])
		}
		if err := recipeRepo.Create(ctx, &recipe); err != nil {
			return nil, fmt.Errorf("seed recipe %s: %w", rs.Title, err)
		}
		summary.Recipes++
	}

	for i, p := range postSeeds {
		p.Slug = slug.Make(p.Title)
		published := opts.Now.Add(-time.Duration(i+1) * 24 * time.Hour)
		p.PublishedAt = &published
		p.Tags = []models.Tag{tags["Quick"]}
		if err := postRepo.Create(ctx, &p); err != nil {
			return nil, fmt.Errorf("seed post %s: %w", p.Title, err)
		}
		summary.Posts++
	}

	if err := services.NewTagService(tagRepo, recipeRepo, nil, logger).RefreshUsageCounts(ctx); err != nil {
		return nil, err
	}

	if opts.AdminEmail != "" {
		admin := services.NewAdminService(
			repositories.NewAccountRepository(db),
			repositories.NewProfileRepository(db),
			recipeRepo,
			categoryRepo,
			repositories.NewCommentRepository(db),
			repositories.NewNewsletterRepository(db),
			logger,
		)
		user, err := admin.CreateUser(ctx, models.CreateUserRequest{
			Email:       opts.AdminEmail,
			Password:    opts.AdminPassword,
			DisplayName: "Site Admin",
			Role:        models.RoleAdmin,
		})
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		summary.AdminID = user.ID
	}

	logger.Info("seed complete",
		"categories", summary.Categories,
		"tags", summary.Tags,
		"recipes", summary.Recipes,
		"posts", summary.Posts,
	)
	return summary, nil
}
