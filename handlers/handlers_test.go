package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-blog-cms/config"
	"recipe-blog-cms/dbtest"
	"recipe-blog-cms/helper"
	"recipe-blog-cms/identity"
	"recipe-blog-cms/mailer"
	"recipe-blog-cms/models"
	"recipe-blog-cms/seed"
	"recipe-blog-cms/services"
	"recipe-blog-cms/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

type IntegrationTestSuite struct {
	suite.Suite
	db       *gorm.DB
	registry *services.Registry
	router   *gin.Engine
}

func (suite *IntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *IntegrationTestSuite) SetupTest() {
	suite.db = dbtest.New(suite.T())
	_, err := seed.Run(context.Background(), suite.db, seed.Options{AdminEmail: "admin@example.com", AdminPassword: "admin-pass"}, nil)
	suite.Require().NoError(err)

	suite.registry = services.NewRegistry(suite.db, services.RegistryOptions{
		Tokens: identity.NewTokenIssuer(config.JWTConfig{Secret: []byte("test-secret"), Expiration: time.Hour, Issuer: "test"}),
		Images: storage.NewBaseURLResolver("https://cdn.example.com"),
		Mail:   mailer.New(config.MailConfig{}, nil),
		AppURL: "http://localhost:3000",
	})
	suite.router = NewRouter(suite.registry, helper.NewHTTPHelper(), RouterOptions{})
}

func (suite *IntegrationTestSuite) do(router *gin.Engine, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	var body bytes.Buffer
	if payload != nil {
		suite.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (suite *IntegrationTestSuite) request(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	return suite.do(suite.router, method, path, token, payload)
}

func (suite *IntegrationTestSuite) registerAndLogin(email string) (string, uint) {
	w, env := suite.request(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Email: email, Password: "password123", DisplayName: "Test Cook",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var res models.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &res))
	return res.Token, res.Account.ID
}

func (suite *IntegrationTestSuite) adminToken() string {
	w, env := suite.request(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: "admin@example.com", Password: "admin-pass"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res models.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &res))
	return res.Token
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	token, _ := suite.registerAndLogin("cook@example.com")

	w, env := suite.request(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: "cook@example.com", Password: "password123"})
	suite.Equal(http.StatusOK, w.Code)
	var login models.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &login))
	suite.NotEmpty(login.Token)
	suite.Equal("Test Cook", login.Profile.DisplayName)

	w, env = suite.request(http.MethodGet, "/api/v1/profile", token, nil)
	suite.Equal(http.StatusOK, w.Code)
	var state struct {
		User       *identity.User  `json:"user"`
		Profile    *models.Profile `json:"profile"`
		IsAdmin    bool            `json:"is_admin"`
		NeedsSetup bool            `json:"needs_setup"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &state))
	suite.Equal("cook@example.com", state.User.Email)
	suite.False(state.IsAdmin)
	suite.False(state.NeedsSetup)

	w, _ = suite.request(http.MethodPost, "/api/v1/auth/logout", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodGet, "/api/v1/profile", token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestWrongPassword() {
	suite.registerAndLogin("cook@example.com")
	w, env := suite.request(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: "cook@example.com", Password: "nope"})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("unAuthorized", env.CodeType)
}

func (suite *IntegrationTestSuite) TestRegisterValidation() {
	w, env := suite.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "bad", "password": "1"})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var fields map[string][]string
	suite.Require().NoError(json.Unmarshal(env.CodeMessage, &fields))
	suite.Contains(fields, "email")
	suite.Contains(fields, "password")
	suite.Contains(fields, "display_name")
}

func (suite *IntegrationTestSuite) TestRecipeListingFilters() {
	w, env := suite.request(http.MethodGet, "/api/v1/recipes?q=chicken&difficulty=Easy", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var listing struct {
		Recipes []models.RecipeView `json:"recipes"`
		Total   int                 `json:"total"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &listing))
	suite.Equal(2, listing.Total)
	suite.Equal("lemon-chicken", listing.Recipes[0].Slug)
	suite.Equal("summer-salad", listing.Recipes[1].Slug)

	w, env = suite.request(http.MethodGet, "/api/v1/recipes?category=DINNER&tag=comfort", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(env.Data, &listing))
	suite.Equal(1, listing.Total)
	suite.Equal("beef-stew", listing.Recipes[0].Slug)

	w, _ = suite.request(http.MethodGet, "/api/v1/recipes?difficulty=easy", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestRecipeDetailAndNotFound() {
	w, env := suite.request(http.MethodGet, "/api/v1/recipes/lemon-chicken", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var recipe models.RecipeView
	suite.Require().NoError(json.Unmarshal(env.Data, &recipe))
	suite.Equal("https://cdn.example.com/recipes/lemon-chicken.jpg", recipe.ImageURL)

	w, env = suite.request(http.MethodGet, "/api/v1/recipes/no-such-dish", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("notFound", env.CodeType)
}

func (suite *IntegrationTestSuite) TestTaxonomyAndPosts() {
	for _, path := range []string{"/api/v1/categories", "/api/v1/categories/dinner", "/api/v1/tags", "/api/v1/posts", "/api/v1/posts/why-we-rest-meat"} {
		w, _ := suite.request(http.MethodGet, path, "", nil)
		suite.Equal(http.StatusOK, w.Code, path)
	}
	w, _ := suite.request(http.MethodGet, "/api/v1/posts/missing", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestTagDetail() {
	w, env := suite.request(http.MethodGet, "/api/v1/tags/comfort", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var detail models.TagDetail
	suite.Require().NoError(json.Unmarshal(env.Data, &detail))
	suite.Equal("Comfort", detail.Name)
	suite.Len(detail.Recipes, 2)

	w, env = suite.request(http.MethodGet, "/api/v1/tags/spicy", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("notFound", env.CodeType)
}

func (suite *IntegrationTestSuite) TestNewsletterSubscribeScenario() {
	w, env := suite.request(http.MethodPost, "/api/v1/newsletter/subscribe", "", models.SubscribeRequest{Email: "Test@Example.com", Source: "footer"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var result models.SubscribeResult
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(models.OutcomeSubscribed, result.Outcome)

	w, _ = suite.request(http.MethodPost, "/api/v1/newsletter/unsubscribe", "", models.UnsubscribeRequest{Email: "TEST@example.com"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, env = suite.request(http.MethodPost, "/api/v1/newsletter/subscribe", "", models.SubscribeRequest{Email: "test@example.com", Source: "header"})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(models.OutcomeReactivated, result.Outcome)

	var rows []models.NewsletterSubscriber
	suite.Require().NoError(suite.db.Find(&rows).Error)
	suite.Require().Len(rows, 1)
	suite.Equal("test@example.com", rows[0].Email)
	suite.Equal(models.SubscriptionActive, rows[0].SubscriptionStatus)
	suite.Equal("header", rows[0].Source)
}

func (suite *IntegrationTestSuite) TestNewsletterResubscribeWhileActiveRecordsLatestSource() {
	w, _ := suite.request(http.MethodPost, "/api/v1/newsletter/subscribe", "", models.SubscribeRequest{Email: "Test@Example.com", Source: "footer"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, env := suite.request(http.MethodPost, "/api/v1/newsletter/subscribe", "", models.SubscribeRequest{Email: "test@example.com", Source: "header"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var result models.SubscribeResult
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(models.OutcomeAlreadySubscribed, result.Outcome)

	var rows []models.NewsletterSubscriber
	suite.Require().NoError(suite.db.Find(&rows).Error)
	suite.Require().Len(rows, 1)
	suite.Equal("test@example.com", rows[0].Email)
	suite.Equal(models.SubscriptionActive, rows[0].SubscriptionStatus)
	suite.Equal("header", rows[0].Source)
}

func (suite *IntegrationTestSuite) TestNewsletterRejectsMalformedEmail() {
	w, env := suite.request(http.MethodPost, "/api/v1/newsletter/subscribe", "", models.SubscribeRequest{Email: "not-an-email"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("validationError", env.CodeType)
}

func (suite *IntegrationTestSuite) TestAdminGate() {
	w, env := suite.request(http.MethodGet, "/api/v1/admin/stats", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code, "no session redirects to sign in")
	var redirect struct {
		RedirectTo string `json:"redirect_to"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &redirect))
	suite.Equal("/signin?redirect=%2Fapi%2Fv1%2Fadmin%2Fstats", redirect.RedirectTo)

	userToken, _ := suite.registerAndLogin("cook@example.com")
	w, env = suite.request(http.MethodGet, "/api/v1/admin/stats", userToken, nil)
	suite.Equal(http.StatusForbidden, w.Code, "plain users see access denied")
	var denied struct {
		Email string          `json:"email"`
		Role  models.UserRole `json:"role"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &denied))
	suite.Equal("cook@example.com", denied.Email)
	suite.Equal(models.RoleUser, denied.Role)

	w, env = suite.request(http.MethodGet, "/api/v1/admin/stats", suite.adminToken(), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var stats models.AdminStats
	suite.Require().NoError(json.Unmarshal(env.Data, &stats))
	suite.EqualValues(2, stats.Users)
	suite.EqualValues(6, stats.PublishedRecipes)
}

func (suite *IntegrationTestSuite) TestAdminUserManagement() {
	admin := suite.adminToken()

	w, env := suite.request(http.MethodPost, "/api/v1/admin/users", admin, models.CreateUserRequest{
		Email: "editor@example.com", Password: "password123", DisplayName: "Ed", Role: models.RoleEditor,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created models.UserSummary
	suite.Require().NoError(json.Unmarshal(env.Data, &created))

	w, env = suite.request(http.MethodGet, "/api/v1/admin/users", admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var users []models.UserSummary
	suite.Require().NoError(json.Unmarshal(env.Data, &users))
	suite.Len(users, 2)

	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", created.ID), admin, nil)
	suite.Equal(http.StatusOK, w.Code)
	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", created.ID), admin, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestCommentOwnership() {
	w, _ := suite.request(http.MethodPost, "/api/v1/recipes/lemon-chicken/comments", "", models.CreateCommentRequest{Content: "Anonymous"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	alice, _ := suite.registerAndLogin("alice@example.com")
	bob, _ := suite.registerAndLogin("bob@example.com")

	w, env := suite.request(http.MethodPost, "/api/v1/recipes/lemon-chicken/comments", alice, models.CreateCommentRequest{Content: "ok"})
	suite.Equal(http.StatusBadRequest, w.Code, "too short")
	suite.Equal("validationError", env.CodeType)

	w, env = suite.request(http.MethodPost, "/api/v1/recipes/lemon-chicken/comments", alice, models.CreateCommentRequest{Content: "Made this twice already"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var comment models.Comment
	suite.Require().NoError(json.Unmarshal(env.Data, &comment))

	path := fmt.Sprintf("/api/v1/comments/%d", comment.ID)
	w, _ = suite.request(http.MethodDelete, path, bob, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, env = suite.request(http.MethodGet, "/api/v1/recipes/lemon-chicken/comments", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var comments []models.Comment
	suite.Require().NoError(json.Unmarshal(env.Data, &comments))
	suite.Len(comments, 1)

	w, _ = suite.request(http.MethodDelete, path, alice, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestNeedsSetupFlow() {
	token, id := suite.registerAndLogin("fresh@example.com")
	suite.Require().NoError(suite.db.Delete(&models.Profile{}, id).Error)

	w, env := suite.request(http.MethodGet, "/api/v1/profile", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var state struct {
		User       *identity.User `json:"user"`
		NeedsSetup bool           `json:"needs_setup"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &state))
	suite.True(state.NeedsSetup)
	suite.NotNil(state.User, "needs-setup is not anonymous")

	w, env = suite.request(http.MethodPost, "/api/v1/recipes/lemon-chicken/comments", token, models.CreateCommentRequest{Content: "Hello there"})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("needsSetup", env.CodeType)

	w, _ = suite.request(http.MethodPost, "/api/v1/profile/setup", token, models.SetupProfileRequest{DisplayName: "Fresh Cook"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w, _ = suite.request(http.MethodPost, "/api/v1/recipes/lemon-chicken/comments", token, models.CreateCommentRequest{Content: "Hello there"})
	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *IntegrationTestSuite) TestUpdateProfile() {
	token, _ := suite.registerAndLogin("cook@example.com")
	name := "Head Chef"
	w, env := suite.request(http.MethodPatch, "/api/v1/profile", token, models.UpdateProfileRequest{DisplayName: &name})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var profile models.Profile
	suite.Require().NoError(json.Unmarshal(env.Data, &profile))
	suite.Equal("Head Chef", profile.DisplayName)
}

func (suite *IntegrationTestSuite) TestMalformedBearer() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.request(http.MethodGet, "/api/v1/recipes", "garbage", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestRateLimit() {
	router := NewRouter(suite.registry, helper.NewHTTPHelper(), RouterOptions{RateLimitPerMinute: 2})
	for i := 0; i < 2; i++ {
		w, _ := suite.do(router, http.MethodPost, "/api/v1/newsletter/subscribe", "", models.SubscribeRequest{Email: "a@example.com"})
		suite.Equal(http.StatusOK, w.Code)
	}
	w, env := suite.do(router, http.MethodPost, "/api/v1/newsletter/subscribe", "", models.SubscribeRequest{Email: "a@example.com"})
	suite.Equal(http.StatusTooManyRequests, w.Code)
	suite.Equal("tooManyRequests", env.CodeType)
}

func (suite *IntegrationTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
