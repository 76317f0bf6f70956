package handler

import (
	"net/http"

	"boardflow/internal/model"
	"boardflow/internal/service"

	"github.com/gin-gonic/gin"
)

type LabelHandler struct {
	svc *service.Service
}

func NewLabelHandler(svc *service.Service) *LabelHandler {
	return &LabelHandler{svc: svc}
}

type LabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type LabelResponse struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

func toLabelResponse(label *model.Label) LabelResponse {
	return LabelResponse{
		ID:      label.ID.String(),
		BoardID: label.BoardID.String(),
		Name:    label.Name,
		Color:   label.Color,
	}
}

func (h *LabelHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	var req LabelRequest
	if !bindJSON(c, &req) {
		return
	}

	label, err := h.svc.CreateLabel(c.Request.Context(), userID, boardID, req.Name, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLabelResponse(label))
}

func (h *LabelHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	labelID, ok := pathID(c, "id", "label")
	if !ok {
		return
	}

	label, err := h.svc.GetLabel(c.Request.Context(), userID, labelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLabelResponse(label))
}

func (h *LabelHandler) GetByBoardID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	labels, err := h.svc.ListLabels(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LabelResponse, len(labels))
	for i := range labels {
		response[i] = toLabelResponse(&labels[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *LabelHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	labelID, ok := pathID(c, "id", "label")
	if !ok {
		return
	}

	var req LabelRequest
	if !bindJSON(c, &req) {
		return
	}

	label, err := h.svc.UpdateLabel(c.Request.Context(), userID, labelID, req.Name, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLabelResponse(label))
}

func (h *LabelHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	labelID, ok := pathID(c, "id", "label")
	if !ok {
		return
	}

	if err := h.svc.DeleteLabel(c.Request.Context(), userID, labelID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCardsWithLabel lists every card carrying the label.
func (h *LabelHandler) GetCardsWithLabel(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	labelID, ok := pathID(c, "id", "label")
	if !ok {
		return
	}

	cards, err := h.svc.CardsWithLabel(c.Request.Context(), userID, labelID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = toCardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}
