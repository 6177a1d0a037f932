package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"phoenix/adapters/ingest"
	"phoenix/domain/core"
	"phoenix/domain/frame"
	"phoenix/domain/insight"
	"phoenix/domain/project"
	apperrors "phoenix/internal/errors"
	"phoenix/internal/report"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSourceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": s.container.Ingest.Types()})
}

// respondError maps application error codes to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeExternalService:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := project.NewProject(req.Name, req.Description)
	if err := s.container.ProjectRepo.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.container.ProjectRepo.List(c.Request.Context(), 100, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, err := s.container.ProjectRepo.GetByID(c.Request.Context(), core.ProjectID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.container.ProjectRepo.Delete(c.Request.Context(), core.ProjectID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type connectSourceRequest struct {
	Name    string            `json:"name" binding:"required"`
	Type    string            `json:"type" binding:"required"`
	Content string            `json:"content"`
	Path    string            `json:"path"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Data    json.RawMessage   `json:"data"`
}

func (s *Server) handleConnectSource(c *gin.Context) {
	projectID := core.ProjectID(c.Param("id"))
	if _, err := s.container.ProjectRepo.GetByID(c.Request.Context(), projectID); err != nil {
		respondError(c, err)
		return
	}

	var req connectSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := ingest.Config{
		Path:    req.Path,
		URL:     req.URL,
		Headers: req.Headers,
		Data:    req.Data,
	}
	if req.Content != "" {
		config.Content = []byte(req.Content)
	}

	result, err := s.container.Ingest.Connect(c.Request.Context(), req.Type, config)
	if err != nil {
		respondError(c, err)
		return
	}

	ds := &project.DataSource{
		ID:        core.DataSourceID(core.NewID()),
		ProjectID: projectID,
		Name:      req.Name,
		Type:      req.Type,
		Preview:   result.Preview,
		Profile:   result.Profile,
		Sample:    result.Sample,
		CreatedAt: core.Now(),
	}
	if err := s.container.DataSourceRepo.Create(c.Request.Context(), ds); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ds)
}

func (s *Server) handleListSources(c *gin.Context) {
	sources, err := s.container.DataSourceRepo.ListByProject(c.Request.Context(), core.ProjectID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	if sources == nil {
		sources = []*project.DataSource{}
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// frameFromSource rebuilds a frame from the stored raw sample so analyses
// and questions run without re-reading the origin.
func (s *Server) frameFromSource(c *gin.Context, sourceID core.DataSourceID) (*project.DataSource, *frame.Frame, error) {
	ds, err := s.container.DataSourceRepo.GetByID(c.Request.Context(), sourceID)
	if err != nil {
		return nil, nil, err
	}
	if len(ds.Sample) == 0 {
		return nil, nil, apperrors.InvalidInput(fmt.Sprintf("data source %s has no stored sample", sourceID))
	}

	raw, err := json.Marshal(ds.Sample)
	if err != nil {
		return nil, nil, apperrors.InternalError(fmt.Sprintf("corrupt sample for data source %s", sourceID))
	}
	f, err := ingest.FrameFromJSONRecords(raw)
	if err != nil {
		return nil, nil, err
	}
	return ds, f, nil
}

type runAnalysisRequest struct {
	SourceID string `json:"source_id" binding:"required"`
	Name     string `json:"name"`
}

func (s *Server) handleRunAnalysis(c *gin.Context) {
	projectID := core.ProjectID(c.Param("id"))

	var req runAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, f, err := s.frameFromSource(c, core.DataSourceID(req.SourceID))
	if err != nil {
		respondError(c, err)
		return
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Analysis of %s", ds.Name)
	}

	insights := s.container.Aggregator.Analyze(c.Request.Context(), f)

	a := &project.Analysis{
		ID:        core.AnalysisID(core.NewID()),
		ProjectID: projectID,
		Name:      name,
		Insights:  insights,
		CreatedAt: core.Now(),
	}
	if err := s.container.AnalysisRepo.Create(c.Request.Context(), a); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	analyses, err := s.container.AnalysisRepo.ListByProject(c.Request.Context(), core.ProjectID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	if analyses == nil {
		analyses = []*project.Analysis{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	a, err := s.container.AnalysisRepo.GetByID(c.Request.Context(), core.AnalysisID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type askQuestionRequest struct {
	SourceID string `json:"source_id" binding:"required"`
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleAskQuestion(c *gin.Context) {
	projectID := core.ProjectID(c.Param("id"))

	var req askQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ds, f, err := s.frameFromSource(c, core.DataSourceID(req.SourceID))
	if err != nil {
		respondError(c, err)
		return
	}

	meta := map[string]interface{}{
		"source_name": ds.Name,
		"source_type": ds.Type,
	}
	answer := s.container.Router.Answer(c.Request.Context(), req.Question, f, meta)

	conv := &project.Conversation{
		ID:        core.NewID(),
		ProjectID: projectID,
		Question:  req.Question,
		Answer:    answer,
		CreatedAt: core.Now(),
	}
	if err := s.container.ConversationRepo.Create(c.Request.Context(), conv); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (s *Server) handleListConversations(c *gin.Context) {
	conversations, err := s.container.ConversationRepo.ListByProject(c.Request.Context(), core.ProjectID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	if conversations == nil {
		conversations = []*project.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

type createStoryRequest struct {
	AnalysisID string `json:"analysis_id" binding:"required"`
	Title      string `json:"title"`
}

func (s *Server) handleCreateStory(c *gin.Context) {
	projectID := core.ProjectID(c.Param("id"))

	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := s.container.AnalysisRepo.GetByID(c.Request.Context(), core.AnalysisID(req.AnalysisID))
	if err != nil {
		respondError(c, err)
		return
	}

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Story: %s", a.Name)
	}

	meta := map[string]interface{}{
		"analysis_name": a.Name,
		"insight_count": len(a.Insights),
	}
	prose := s.container.Synthesizer.Synthesize(c.Request.Context(), a.Insights, meta)

	story := &project.Story{
		ID:        core.StoryID(core.NewID()),
		ProjectID: projectID,
		Title:     title,
		Narrative: prose,
		CreatedAt: core.Now(),
	}
	if err := s.container.StoryRepo.Create(c.Request.Context(), story); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (s *Server) handleListStories(c *gin.Context) {
	stories, err := s.container.StoryRepo.ListByProject(c.Request.Context(), core.ProjectID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	if stories == nil {
		stories = []*project.Story{}
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (s *Server) handleGetStory(c *gin.Context) {
	story, err := s.container.StoryRepo.GetByID(c.Request.Context(), core.StoryID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (s *Server) handleExportStory(c *gin.Context) {
	story, err := s.container.StoryRepo.GetByID(c.Request.Context(), core.StoryID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	// Pull the newest analysis for supporting insight sections; the export
	// still renders without one.
	var supporting []*project.Analysis
	if analyses, err := s.container.AnalysisRepo.ListByProject(c.Request.Context(), story.ProjectID); err == nil {
		supporting = analyses
	}

	doc := s.container.Exporter.ExportHTML(story, firstInsights(supporting))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(story)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

func firstInsights(analyses []*project.Analysis) []insight.Insight {
	if len(analyses) == 0 {
		return nil
	}
	return analyses[0].Insights
}
