package handler

import (
	"net/http"
	"time"

	"boardflow/internal/model"
	"boardflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.Service
}

func NewCommentHandler(svc *service.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type CommentResponse struct {
	ID        string        `json:"id"`
	CardID    string        `json:"card_id"`
	Author    *UserResponse `json:"author,omitempty"`
	AuthorID  string        `json:"author_id"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
}

func toCommentResponse(comment *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID.String(),
		CardID:    comment.CardID.String(),
		AuthorID:  comment.AuthorID.String(),
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author.ID == comment.AuthorID {
		author := toUserResponse(&comment.Author)
		resp.Author = &author
	}
	return resp
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), userID, cardID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h *CommentHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CommentResponse, len(comments))
	for i := range comments {
		response[i] = toCommentResponse(&comments[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id", "comment")
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
