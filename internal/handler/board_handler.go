package handler

import (
	"net/http"
	"time"

	"boardflow/internal/model"
	"boardflow/internal/service"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	svc *service.Service
}

func NewBoardHandler(svc *service.Service) *BoardHandler {
	return &BoardHandler{svc: svc}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateBoardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type BoardResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	OwnerID     string           `json:"owner_id"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Columns     []ColumnResponse `json:"columns,omitempty"`
}

func toBoardResponse(board *model.Board) BoardResponse {
	resp := BoardResponse{
		ID:          board.ID.String(),
		Title:       board.Title,
		Description: board.Description,
		OwnerID:     board.OwnerID.String(),
		CreatedAt:   board.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   board.UpdatedAt.Format(time.RFC3339),
	}
	for i := range board.Columns {
		resp.Columns = append(resp.Columns, toColumnResponse(&board.Columns[i]))
	}
	return resp
}

func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.svc.CreateBoard(c.Request.Context(), userID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetAll returns every board the user is a member of.
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boards, err := h.svc.ListBoards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns the board with its columns and cards in display order.
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	board, err := h.svc.GetBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.svc.UpdateBoard(c.Request.Context(), userID, boardID, service.UpdateBoardInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	if err := h.svc.DeleteBoard(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
