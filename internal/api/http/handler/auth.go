package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/service"
)

// AuthHandler serves login, logout and session lookup. Identity is a plain
// phone-number lookup against the user set, not a security boundary.
type AuthHandler struct {
	store  *service.Store
	logger *logger.Logger
}

// NewAuthHandler creates an AuthHandler over the store façade.
func NewAuthHandler(store *service.Store, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{store: store, logger: logger}
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// Login authenticates by phone number and persists the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.Login(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout clears the persisted session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.store.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session returns the persisted current user, or 204 when nobody is logged in.
func (h *AuthHandler) Session(c *gin.Context) {
	user, ok, err := h.store.CurrentUser(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, user)
}
