package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"recipe-blog-cms/filter"
	"recipe-blog-cms/models"
)

type RecipeList struct {
	Recipes []models.RecipeView `json:"recipes"`
	Total   int                 `json:"total"`
	Filters filter.State        `json:"filters"`
}

// FetchRecipes lists published recipes narrowed by s. An empty state lists
// the whole collection.
func (c *Client) FetchRecipes(ctx context.Context, s filter.State) (*RecipeList, error) {
	var list RecipeList
	if err := c.do(ctx, http.MethodGet, "/recipes", s.APIQuery(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) FetchRecipe(ctx context.Context, slug string) (*models.RecipeView, error) {
	var recipe models.RecipeView
	if err := c.do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(slug), nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) FetchCategory(ctx context.Context, slug string) (*models.CategoryDetail, error) {
	var detail models.CategoryDetail
	if err := c.do(ctx, http.MethodGet, "/categories/"+url.PathEscape(slug), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) FetchTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) FetchTag(ctx context.Context, name string) (*models.TagDetail, error) {
	var detail models.TagDetail
	if err := c.do(ctx, http.MethodGet, "/tags/"+url.PathEscape(name), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) FetchPosts(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := c.do(ctx, http.MethodGet, "/posts", nil, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) FetchComments(ctx context.Context, recipeSlug string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(recipeSlug)+"/comments", nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) InsertComment(ctx context.Context, recipeSlug, content string) (*models.Comment, error) {
	var comment models.Comment
	path := "/recipes/" + url.PathEscape(recipeSlug) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, nil, models.CreateCommentRequest{Content: content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes comment when the current session authored it.
// Other callers are refused locally without a request.
func (c *Client) DeleteComment(ctx context.Context, comment models.Comment) error {
	session, err := c.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return models.ErrNoSession
	}
	if !comment.OwnedBy(session.User.ID) {
		return models.ErrNotCommentOwner
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), nil, nil, nil)
}

func (c *Client) Subscribe(ctx context.Context, email, source string) (*models.SubscribeResult, error) {
	var result models.SubscribeResult
	if err := c.do(ctx, http.MethodPost, "/newsletter/subscribe", nil, models.SubscribeRequest{Email: email, Source: source}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Unsubscribe(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	if err := c.do(ctx, http.MethodPost, "/newsletter/unsubscribe", nil, models.UnsubscribeRequest{Email: email}, &subscriber); err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.UserSummary, error) {
	var user models.UserSummary
	if err := c.do(ctx, http.MethodPost, "/admin/users", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil, nil)
}
