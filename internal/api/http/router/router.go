// Package router assembles the HTTP routing table.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartquiz/smartquiz-server/internal/api/http/handler"
	"github.com/smartquiz/smartquiz-server/internal/api/http/middleware"
	"github.com/smartquiz/smartquiz-server/internal/logger"
)

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Document *handler.DocumentHandler
	Quiz     *handler.QuizHandler
}

// New builds the gin engine with recovery and request logging installed.
func New(h Handlers, l *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.NewLogging(l).Handle)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/login", h.Auth.Login)
		api.POST("/logout", h.Auth.Logout)
		api.GET("/session", h.Auth.Session)

		api.GET("/users", h.User.List)
		api.POST("/users", h.User.Create)

		api.GET("/documents", h.Document.List)
		api.POST("/documents", h.Document.Upload)
		api.GET("/documents/:id/content", h.Document.Content)

		api.GET("/quizzes", h.Quiz.List)
		api.GET("/quizzes/:id", h.Quiz.Get)
	}

	return engine
}
