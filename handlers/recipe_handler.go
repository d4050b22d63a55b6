package handlers

import (
	"recipe-blog-cms/filter"
	"recipe-blog-cms/helper"
	"recipe-blog-cms/models"
	"recipe-blog-cms/services"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipeService   services.RecipeService
	categoryService services.CategoryService
	tagService      services.TagService
	blogService     services.BlogService
	Helper          *helper.HTTPHelper
}

func NewRecipeHandler(
	recipeService services.RecipeService,
	categoryService services.CategoryService,
	tagService services.TagService,
	blogService services.BlogService,
	h *helper.HTTPHelper,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		categoryService: categoryService,
		tagService:      tagService,
		blogService:     blogService,
		Helper:          h,
	}
}

// GetRecipes lists published recipes, narrowed by q, category, difficulty
// and tag query parameters.
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	state := filter.FromQuery(c.Request.URL.Query())
	if state.Difficulty != "" && !state.Difficulty.Valid() {
		h.Helper.SendErrorFrom(c, models.NewValidationError("difficulty", "difficulty must be one of Easy, Medium, Hard"))
		return
	}

	recipes, err := h.recipeService.GetRecipes(c.Request.Context(), state)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"recipes": recipes,
		"total":   len(recipes),
		"filters": state,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", recipe)
}

func (h *RecipeHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories(c.Request.Context())
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", categories)
}

func (h *RecipeHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", category)
}

func (h *RecipeHandler) GetTags(c *gin.Context) {
	tags, err := h.tagService.GetTags(c.Request.Context())
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", tags)
}

func (h *RecipeHandler) GetTag(c *gin.Context) {
	tag, err := h.tagService.GetTag(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", tag)
}

func (h *RecipeHandler) GetPosts(c *gin.Context) {
	posts, err := h.blogService.GetPosts(c.Request.Context())
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", posts)
}

func (h *RecipeHandler) GetPost(c *gin.Context) {
	post, err := h.blogService.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", post)
}
