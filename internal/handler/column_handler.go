package handler

import (
	"net/http"

	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/service"

	"github.com/gin-gonic/gin"
)

type ColumnHandler struct {
	svc *service.Service
}

func NewColumnHandler(svc *service.Service) *ColumnHandler {
	return &ColumnHandler{svc: svc}
}

type CreateColumnRequest struct {
	Title string `json:"title" binding:"required"`
	Color string `json:"color"`
}

type UpdateColumnRequest struct {
	Title *string `json:"title"`
	Color *string `json:"color"`
}

// MoveColumnRequest carries the position the client computed from the
// neighbours at the drop point.
type MoveColumnRequest struct {
	Position *float64 `json:"position" binding:"required"`
}

type ColumnResponse struct {
	ID       string         `json:"id"`
	BoardID  string         `json:"board_id"`
	Title    string         `json:"title"`
	Color    string         `json:"color,omitempty"`
	Position float64        `json:"position"`
	Cards    []CardResponse `json:"cards,omitempty"`
}

func toColumnResponse(column *model.Column) ColumnResponse {
	resp := ColumnResponse{
		ID:       column.ID.String(),
		BoardID:  column.BoardID.String(),
		Title:    column.Title,
		Color:    column.Color,
		Position: column.Position.Float64(),
	}
	for i := range column.Cards {
		resp.Cards = append(resp.Cards, toCardResponse(&column.Cards[i]))
	}
	return resp
}

// Create appends a column to the end of the board.
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	var req CreateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.svc.CreateColumn(c.Request.Context(), userID, boardID, req.Title, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toColumnResponse(column))
}

func (h *ColumnHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	columns, err := h.svc.ListColumns(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = toColumnResponse(&columns[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ColumnHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}

	column, err := h.svc.GetColumn(c.Request.Context(), userID, columnID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toColumnResponse(column))
}

func (h *ColumnHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}

	var req UpdateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.svc.UpdateColumn(c.Request.Context(), userID, columnID, service.UpdateColumnInput{
		Title: req.Title,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toColumnResponse(column))
}

func (h *ColumnHandler) Move(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}

	var req MoveColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.svc.MoveColumn(c.Request.Context(), userID, columnID, ordering.Position(*req.Position))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toColumnResponse(column))
}

// Delete removes an empty column; a column with cards yields 409.
func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}

	if err := h.svc.DeleteColumn(c.Request.Context(), userID, columnID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
