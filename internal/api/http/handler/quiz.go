package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/service"
)

// QuizHandler serves quiz listing and retrieval.
type QuizHandler struct {
	store  *service.Store
	logger *logger.Logger
}

func NewQuizHandler(store *service.Store, logger *logger.Logger) *QuizHandler {
	return &QuizHandler{store: store, logger: logger}
}

func (h *QuizHandler) List(c *gin.Context) {
	quizzes, err := h.store.Quizzes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) Get(c *gin.Context) {
	quiz, err := h.store.Quiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}
