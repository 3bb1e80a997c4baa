package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Drashti7312/FinancialChatBot/internal/core/lang"
	"github.com/Drashti7312/FinancialChatBot/internal/core/orchestrator"
	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/models"
	"github.com/Drashti7312/FinancialChatBot/internal/service/ai"
	"github.com/Drashti7312/FinancialChatBot/internal/service/store"
	"github.com/Drashti7312/FinancialChatBot/internal/tools"
	"github.com/Drashti7312/FinancialChatBot/internal/worker"
)

const (
	maxUploadBytes = 20 << 20 // 20 MB
	chatTimeout    = 2 * time.Minute
)

// supportedExtensions maps accepted upload extensions to the stored
// document kind. xlsx and xls collapse into a single excel kind.
var supportedExtensions = map[string]string{
	"csv":  "csv",
	"xlsx": "excel",
	"xls":  "excel",
	"pdf":  "pdf",
	"docx": "docx",
}

// Handler wires HTTP routes to the document store and query pipeline.
type Handler struct {
	store      *store.Service
	charts     *store.ChartStore
	detector   *lang.Detector
	orch       *orchestrator.Orchestrator
	dispatcher *worker.Dispatcher
	registry   *tools.Registry
	ai         *ai.Client
}

// NewHandler constructs a Handler instance.
func NewHandler(st *store.Service, charts *store.ChartStore, detector *lang.Detector, orch *orchestrator.Orchestrator, dispatcher *worker.Dispatcher, registry *tools.Registry, client *ai.Client) *Handler {
	return &Handler{
		store:      st,
		charts:     charts,
		detector:   detector,
		orch:       orch,
		dispatcher: dispatcher,
		registry:   registry,
		ai:         client,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.root)
	api := router.Group("/api/v1")
	api.POST("/upload", h.uploadDocument)
	api.POST("/add-link", h.addLink)
	api.POST("/chat", h.chat)
	api.GET("/sessions/:user_id", h.getUserSessions)
	api.GET("/chat/:session_id/:user_id", h.getSessionChat)
	api.DELETE("/chat/:session_id/:user_id", h.clearSessionChat)
	api.GET("/health", h.health)
	api.GET("/tools", h.listTools)
	api.GET("/supported_languages", h.supportedLanguages)
	api.POST("/select_language", h.selectLanguage)
	api.POST("/get_charts", h.getCharts)
}

const rootPage = `<html>
<head><title>Financial Intelligence Chatbot</title></head>
<body style="font-family: Arial, sans-serif; margin: 40px;">
<h1>Financial Intelligence Chatbot</h1>
<p>Welcome! This API provides AI-powered financial document analysis and chat features.</p>
<h3>Available Endpoints</h3>
<ul>
<li><a href="/api/v1/health">Health Check</a></li>
<li><a href="/api/v1/tools">Available Tools</a></li>
<li><a href="/api/v1/supported_languages">Supported Languages</a></li>
</ul>
</body>
</html>`

func (h *Handler) root(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rootPage))
}

func (h *Handler) uploadDocument(c *gin.Context) {
	sessionID := strings.TrimSpace(c.PostForm("session_id"))
	if sessionID == "" {
		sessionID = strings.TrimSpace(c.Query("session_id"))
	}
	userID := strings.TrimSpace(c.PostForm("user_id"))
	if userID == "" {
		userID = strings.TrimSpace(c.Query("user_id"))
	}
	if sessionID == "" || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and user_id are required"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	filename := filepath.Base(file.Filename)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	kind, ok := supportedExtensions[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unsupported file type '" + ext + "'. Supported types: csv, xlsx, xls, pdf, docx",
		})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open file failed"})
		return
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read uploaded file failed"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is empty"})
		return
	}
	doc, err := h.store.StoreFile(c.Request.Context(), sessionID, userID, filename, kind, data)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "file '" + filename + "' already exists in this session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logx.Info().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Str("filename", filename).
		Str("file_id", doc.ID).
		Msg("file uploaded")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"file_id": doc.ID,
		"message": "File '" + filename + "' uploaded successfully",
	})
}

type linkRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
}

func (h *Handler) addLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" || req.UserID == "" || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id, user_id and url are required"})
		return
	}
	link, err := h.store.AddLink(c.Request.Context(), req.SessionID, req.UserID, req.URL, req.Title)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "link already exists in this session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"link_id": link.ID,
		"message": "Link added successfully",
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id and user_id are required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	if _, err := h.store.AppendMessage(ctx, models.Message{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Role:      models.RoleHuman,
		Content:   req.Message,
		MessageID: uuid.NewString(),
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	docs, err := h.store.GetSessionDocuments(ctx, req.SessionID, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	state := &orchestrator.State{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		MessageID: uuid.NewString(),
		Query:     req.Message,
		Documents: docs,
	}
	done := make(chan string, 1)
	err = h.dispatcher.Submit(worker.Job{
		UserID: req.UserID,
		Run: func() {
			done <- h.orch.ProcessQuery(ctx, state)
		},
	})
	if err != nil {
		if errors.Is(err, worker.ErrDispatcherBusy) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "server is busy, please retry"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var reply string
	select {
	case reply = <-done:
	case <-ctx.Done():
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
		return
	}

	if _, err := h.store.AppendMessage(c.Request.Context(), models.Message{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Role:      models.RoleAssistant,
		Content:   reply,
		MessageID: state.MessageID,
	}); err != nil {
		logx.Error().Err(err).Str("session_id", req.SessionID).Msg("persist assistant reply failed")
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"response":   reply,
		"message_id": state.MessageID,
	})
}

func (h *Handler) getUserSessions(c *gin.Context) {
	userID := c.Param("user_id")
	sessions, err := h.store.ListSessions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = make([]models.SessionInfo, 0)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sessions": sessions,
	})
}

func (h *Handler) getSessionChat(c *gin.Context) {
	sessionID := c.Param("session_id")
	userID := c.Param("user_id")
	messages, err := h.store.GetMessages(c.Request.Context(), sessionID, userID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(messages))
	for _, m := range messages {
		out = append(out, gin.H{
			"type":       m.Role,
			"content":    m.Content,
			"message_id": m.MessageID,
			"timestamp":  m.CreatedAt.Format("02-01-2006 15:04:05"),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": out,
	})
}

func (h *Handler) clearSessionChat(c *gin.Context) {
	sessionID := c.Param("session_id")
	userID := c.Param("user_id")
	if err := h.store.ClearHistory(c.Request.Context(), sessionID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.ClearLanguage(c.Request.Context(), userID, sessionID); err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("clear cached language failed")
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Financial Intelligence Chatbot",
		"model":   h.ai.ModelName(),
	})
}

func (h *Handler) listTools(c *gin.Context) {
	list := h.registry.List()
	out := make([]gin.H, 0, len(list))
	for _, t := range list {
		info := t.Info()
		out = append(out, gin.H{
			"name":        info.Name,
			"description": info.Desc,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tools": out})
}

func (h *Handler) supportedLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": lang.Supported})
}

type selectLanguageRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Language  string `json:"language"`
}

func (h *Handler) selectLanguage(c *gin.Context) {
	var req selectLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SessionID == "" || req.UserID == "" || req.Language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id, user_id and language are required"})
		return
	}
	selected, err := h.detector.Set(c.Request.Context(), req.UserID, req.SessionID, req.Language)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"language": selected,
	})
}

type getChartsRequest struct {
	MessageIDs []string `json:"message_ids"`
}

func (h *Handler) getCharts(c *gin.Context) {
	var req getChartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	charts := h.charts.ChartsFor(req.MessageIDs)
	if charts == nil {
		charts = make([]store.Chart, 0)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"charts":  charts,
	})
}
