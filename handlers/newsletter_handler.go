package handlers

import (
	"recipe-blog-cms/helper"
	"recipe-blog-cms/models"
	"recipe-blog-cms/services"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	newsletterService services.NewsletterService
	Helper            *helper.HTTPHelper
}

func NewNewsletterHandler(newsletterService services.NewsletterService, h *helper.HTTPHelper) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService, Helper: h}
}

func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	result, err := h.newsletterService.Subscribe(c.Request.Context(), req.Email, req.Source)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	message := "Subscribed"
	switch result.Outcome {
	case models.OutcomeAlreadySubscribed:
		message = "Already subscribed"
	case models.OutcomeReactivated:
		message = "Welcome back, subscription reactivated"
	}
	h.Helper.SendSuccess(c, message, result)
}

func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req models.UnsubscribeRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	subscriber, err := h.newsletterService.Unsubscribe(c.Request.Context(), req.Email)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Unsubscribed", subscriber)
}
