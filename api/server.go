// Package api exposes the service over HTTP: a gin JSON API for projects,
// sources, analyses, questions and stories, plus a small chi-based
// operational endpoint set (health, readiness, pprof).
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoenix/internal/container"
)

// Server is the public JSON API
type Server struct {
	router    *gin.Engine
	container *container.Container
}

// NewServer builds the API server and registers all routes
func NewServer(c *container.Container) *Server {
	gin.SetMode(c.Config.Server.GinMode)

	s := &Server{
		router:    gin.Default(),
		container: c,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")

	api.GET("/health", s.handleHealth)
	api.GET("/source-types", s.handleSourceTypes)

	api.POST("/projects", s.handleCreateProject)
	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/:id", s.handleGetProject)
	api.DELETE("/projects/:id", s.handleDeleteProject)

	api.POST("/projects/:id/sources", s.handleConnectSource)
	api.GET("/projects/:id/sources", s.handleListSources)

	api.POST("/projects/:id/analyses", s.handleRunAnalysis)
	api.GET("/projects/:id/analyses", s.handleListAnalyses)
	api.GET("/analyses/:id", s.handleGetAnalysis)

	api.POST("/projects/:id/questions", s.handleAskQuestion)
	api.GET("/projects/:id/conversations", s.handleListConversations)

	api.POST("/projects/:id/stories", s.handleCreateStory)
	api.GET("/projects/:id/stories", s.handleListStories)
	api.GET("/stories/:id", s.handleGetStory)
	api.GET("/stories/:id/export", s.handleExportStory)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on the given address, blocking until shutdown
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
