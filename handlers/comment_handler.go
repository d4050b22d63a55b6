package handlers

import (
	"strconv"

	"recipe-blog-cms/helper"
	"recipe-blog-cms/middleware"
	"recipe-blog-cms/models"
	"recipe-blog-cms/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService services.CommentService
	Helper         *helper.HTTPHelper
}

func NewCommentHandler(commentService services.CommentService, h *helper.HTTPHelper) *CommentHandler {
	return &CommentHandler{commentService: commentService, Helper: h}
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.commentService.GetComments(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", comments)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	state := middleware.AuthState(c)
	comment, err := h.commentService.CreateComment(c.Request.Context(), c.Param("slug"), state.User.ID, req.Content)
	if err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendCreated(c, "Comment posted", comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid comment ID", h.Helper.EmptyJsonMap())
		return
	}

	state := middleware.AuthState(c)
	if err := h.commentService.DeleteComment(c.Request.Context(), uint(id), state.User.ID); err != nil {
		h.Helper.SendErrorFrom(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment deleted", h.Helper.EmptyJsonMap())
}
