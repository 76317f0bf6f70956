package handler

import (
	"net/http"

	"boardflow/internal/model"
	"boardflow/internal/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler manages who can see and edit a board.
type MemberHandler struct {
	svc *service.Service
}

func NewMemberHandler(svc *service.Service) *MemberHandler {
	return &MemberHandler{svc: svc}
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=viewer editor admin"`
}

type MemberResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func toMemberResponse(m *model.Membership) MemberResponse {
	return MemberResponse{
		UserID: m.UserID.String(),
		Email:  m.User.Email,
		Name:   m.User.Name,
		Role:   string(m.Role),
	}
}

// Add grants a role to a user, or changes the role of an existing member.
func (h *MemberHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.svc.AddMember(c.Request.Context(), userID, boardID, req.Email, model.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMemberResponse(membership))
}

func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "user_id", "user")
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), userID, boardID, memberID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MemberResponse, len(members))
	for i := range members {
		response[i] = toMemberResponse(&members[i])
	}
	c.JSON(http.StatusOK, response)
}
