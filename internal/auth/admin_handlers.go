package auth

import (
	"net/http"
	"strconv"

	"messapi/internal/v0/common"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles mess administration endpoints
type AdminHandler struct {
	repo       *Repository
	tokenStore *TokenStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repo *Repository, tokenStore *TokenStore) *AdminHandler {
	return &AdminHandler{
		repo:       repo,
		tokenStore: tokenStore,
	}
}

// ListUsers returns all resident accounts with pagination
// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	users, err := h.repo.GetAllUsers(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to list users"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	}))
}

// GetUser returns a single resident account
// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid user ID"}))
		return
	}

	user, err := h.repo.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to load user"}))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"user not found"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"user": user}))
}

// UpdateUser updates a resident's role, status or room assignment
// PATCH /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid user ID"}))
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	if req.Role != nil && *req.Role != RoleResident && *req.Role != RoleAdmin {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid role"}))
		return
	}
	if req.Status != nil && *req.Status != StatusActive && *req.Status != StatusSuspended {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid status"}))
		return
	}

	user, err := h.repo.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to load user"}))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, common.CreateErrorResponse([]string{"user not found"}))
		return
	}

	if err := h.repo.UpdateUser(id, req.Role, req.Status, req.RoomNo); err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to update user"}))
		return
	}

	updated, err := h.repo.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.CreateErrorResponse([]string{"failed to load user"}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{"user": updated}))
}

// RevokeToken revokes any service token
// DELETE /admin/tokens/:id
func (h *AdminHandler) RevokeToken(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{"invalid token ID"}))
		return
	}

	if err := h.tokenStore.AdminRevokeToken(id); err != nil {
		c.JSON(http.StatusBadRequest, common.CreateErrorResponse([]string{err.Error()}))
		return
	}

	c.JSON(http.StatusOK, common.CreateSuccessResponse(gin.H{
		"message": "Token revoked successfully",
	}))
}
