package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/export"
	"github.com/reciptera/reciptera/internal/extraction"
	"github.com/reciptera/reciptera/internal/repository"
)

// HealthFunc reports backend (database) health for /healthz.
type HealthFunc func(ctx context.Context) error

// Server wires the HTTP API over the engine, repositories and exporter.
type Server struct {
	engine   *extraction.Engine
	receipts repository.ReceiptRepository
	exporter *export.Service
	health   HealthFunc
	currency string
	logger   *slog.Logger

	editLog    *extraction.EditLog
	mu         sync.Mutex
	cycles     map[uuid.UUID]*extraction.Cycle
	cycleOrder []uuid.UUID
}

func New(engine *extraction.Engine, receipts repository.ReceiptRepository, exporter *export.Service, health HealthFunc, currencyCode string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:   engine,
		receipts: receipts,
		exporter: exporter,
		health:   health,
		currency: currencyCode,
		logger:   logger,
		editLog:  extraction.NewEditLog(),
		cycles:   make(map[uuid.UUID]*extraction.Cycle),
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/extract", s.handleExtract)
		api.POST("/edits", s.handleRecordEdit)

		api.POST("/receipts", s.handleCreateReceipt)
		api.GET("/receipts", s.handleListReceipts)
		api.GET("/receipts/stats", s.handleReceiptStats)
		api.GET("/receipts/:id", s.handleGetReceipt)
		api.DELETE("/receipts/:id", s.handleDeleteReceipt)

		api.GET("/export/csv", s.handleExportCSV)
		api.GET("/export/xlsx", s.handleExportXLSX)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()
		ctx := common.WithRequestID(c.Request.Context(), reqID)
		if raw := c.GetHeader("X-Profile-ID"); raw != "" {
			ctx = common.WithProfileID(ctx, raw)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
		s.logger.Info("http.request",
			"request_id", common.RequestIDFromContext(c.Request.Context()),
			"profile_id", common.ProfileIDFromContext(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// profileID reads the caller's profile from the X-Profile-ID header. Session
// handling lives outside this service.
func profileID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader("X-Profile-ID")
	if raw == "" {
		return uuid.Nil, common.NewAppError("AUTH_ERROR", "missing X-Profile-ID header", common.ErrUnauthorized)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.InvalidInputError("X-Profile-ID must be a UUID")
	}
	return id, nil
}

func respondError(c *gin.Context, err error) {
	var appErr *common.AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	c.JSON(common.HTTPStatus(err), gin.H{"error": msg})
}
