package handler

import (
	"net/http"
	"strconv"
	"time"

	"boardflow/internal/model"
	"boardflow/internal/ordering"
	"boardflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	svc *service.Service
}

func NewCardHandler(svc *service.Service) *CardHandler {
	return &CardHandler{svc: svc}
}

type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *string    `json:"assigned_to" binding:"omitempty,uuid"`
}

// UpdateCardRequest changes only the fields present. Version, when sent,
// must match the stored card.
type UpdateCardRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	ClearDueDate  bool       `json:"clear_due_date"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ClearPriority bool       `json:"clear_priority"`
	AssignedTo    *string    `json:"assigned_to" binding:"omitempty,uuid"`
	Unassign      bool       `json:"unassign"`
	Version       *int64     `json:"version"`
}

type ArchiveCardRequest struct {
	Version *int64 `json:"version"`
}

// MoveCardRequest is what the client sends after a drop: the target column,
// the position it computed from the neighbours it saw and the card version
// it last read.
type MoveCardRequest struct {
	ColumnID string   `json:"column_id" binding:"required,uuid"`
	Position *float64 `json:"position" binding:"required"`
	Version  *int64   `json:"version"`
}

type MoveCardResponse struct {
	ID         string    `json:"id"`
	ColumnID   string    `json:"column_id"`
	Position   float64   `json:"position"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
	Rebalanced bool      `json:"rebalanced"`
}

type CardResponse struct {
	ID          string          `json:"id"`
	ColumnID    string          `json:"column_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Position    float64         `json:"position"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Priority    *string         `json:"priority,omitempty"`
	Archived    bool            `json:"archived"`
	AssignedTo  *string         `json:"assigned_to,omitempty"`
	CreatedBy   string          `json:"created_by"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Labels      []LabelResponse `json:"labels"`
}

func toCardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		ColumnID:    card.ColumnID.String(),
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position.Float64(),
		DueDate:     card.DueDate,
		Archived:    card.Archived,
		CreatedBy:   card.CreatedBy.String(),
		Version:     card.Version,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
		Labels:      make([]LabelResponse, len(card.Labels)),
	}
	if card.Priority != nil {
		p := string(*card.Priority)
		resp.Priority = &p
	}
	if card.AssignedTo != nil {
		a := card.AssignedTo.String()
		resp.AssignedTo = &a
	}
	for i := range card.Labels {
		resp.Labels[i] = toLabelResponse(&card.Labels[i])
	}
	return resp
}

func priorityPtr(s *string) *model.Priority {
	if s == nil {
		return nil
	}
	p := model.Priority(*s)
	return &p
}

// uuidPtr parses an optional id already checked by the binding tags.
func uuidPtr(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id := uuid.MustParse(*s)
	return &id
}

// Create appends a card to the end of the column.
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}

	var req CreateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.CreateCard(c.Request.Context(), userID, service.CreateCardInput{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priorityPtr(req.Priority),
		AssignedTo:  uuidPtr(req.AssignedTo),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCardResponse(card))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	card, err := h.svc.GetCard(c.Request.Context(), userID, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

// GetByColumnID lists a column's cards in display order. Archived cards are
// left out unless include_archived=true.
func (h *CardHandler) GetByColumnID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}
	includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))

	cards, err := h.svc.ListCards(c.Request.Context(), userID, columnID, includeArchived)
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

func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.UpdateCard(c.Request.Context(), userID, cardID, service.UpdateCardInput{
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         req.DueDate,
		ClearDueDate:    req.ClearDueDate,
		Priority:        priorityPtr(req.Priority),
		ClearPriority:   req.ClearPriority,
		AssignedTo:      uuidPtr(req.AssignedTo),
		Unassign:        req.Unassign,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

func (h *CardHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

func (h *CardHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *CardHandler) setArchived(c *gin.Context, archived bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	// Тело необязательно
	var req ArchiveCardRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	card, err := h.svc.SetArchived(c.Request.Context(), userID, cardID, archived, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	if err := h.svc.DeleteCard(c.Request.Context(), userID, cardID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Move relocates a card. A stale version yields 409 and the client is
// expected to refetch the column before retrying.
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	var req MoveCardRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.MoveCard(c.Request.Context(), userID, service.MoveCardInput{
		CardID:          cardID,
		TargetColumnID:  uuid.MustParse(req.ColumnID),
		Position:        ordering.Position(*req.Position),
		ExpectedVersion: req.Version,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MoveCardResponse{
		ID:         result.CardID.String(),
		ColumnID:   result.ColumnID.String(),
		Position:   result.Position.Float64(),
		Version:    result.Version,
		UpdatedAt:  result.UpdatedAt,
		Rebalanced: result.Rebalanced,
	})
}

func (h *CardHandler) AddLabel(c *gin.Context) {
	h.changeLabel(c, true)
}

func (h *CardHandler) RemoveLabel(c *gin.Context) {
	h.changeLabel(c, false)
}

func (h *CardHandler) changeLabel(c *gin.Context, attach bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}
	labelID, ok := pathID(c, "label_id", "label")
	if !ok {
		return
	}

	var err error
	if attach {
		err = h.svc.AttachLabel(c.Request.Context(), userID, cardID, labelID)
	} else {
		err = h.svc.DetachLabel(c.Request.Context(), userID, cardID, labelID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
