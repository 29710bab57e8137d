package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/model"
	"github.com/smartquiz/smartquiz-server/internal/service"
)

// UserHandler serves user administration.
type UserHandler struct {
	store  *service.Store
	logger *logger.Logger
}

// NewUserHandler creates a UserHandler over the store façade.
func NewUserHandler(store *service.Store, logger *logger.Logger) *UserHandler {
	return &UserHandler{store: store, logger: logger}
}

// List returns the full user set.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.Users(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Role        string `json:"role"`
	Name        string `json:"name"`
	ExpiryDate  string `json:"expiryDate"`
}

// Create adds a user. Role defaults to USER; learner accounts should carry
// an expiry date, but its absence is not an error.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := model.UserRole(req.Role)
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		writeError(c, fmt.Errorf("%w: unknown role %q", model.ErrValidationFailed, req.Role))
		return
	}

	user := model.User{
		PhoneNumber: req.PhoneNumber,
		Role:        role,
		Name:        req.Name,
		ExpiryDate:  req.ExpiryDate,
	}
	if err := h.store.AddUser(c.Request.Context(), user); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
