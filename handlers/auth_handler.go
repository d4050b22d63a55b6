package handlers

import (
	"recipe-blog-cms/helper"
	"recipe-blog-cms/middleware"
	"recipe-blog-cms/models"
	"recipe-blog-cms/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: h}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendCreated(c, "Register success", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login success", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	state := middleware.AuthState(c)
	if err := h.authService.Logout(c.Request.Context(), state.Session.ID); err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Signed out", h.Helper.EmptyJsonMap())
}

// GetProfile returns the caller's resolved auth state, including the
// needs-setup condition when no profile exists yet.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	h.Helper.SendSuccess(c, "Profile loaded", middleware.AuthState(c))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	state := middleware.AuthState(c)
	profile, err := h.authService.UpdateProfile(c.Request.Context(), state.User.ID, req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile updated", profile)
}

func (h *AuthHandler) SetupProfile(c *gin.Context) {
	var req models.SetupProfileRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	state := middleware.AuthState(c)
	profile, err := h.authService.SetupProfile(c.Request.Context(), *state.User, req)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendCreated(c, "Profile created", profile)
}
