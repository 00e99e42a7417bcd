package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "udyami/docs" // registers the OpenAPI spec with swag
	"udyami/internal/handler"
	"udyami/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health    *handler.HealthHandler
	Extract   *handler.ExtractHandler
	Documents *handler.DocumentHandler
	Stats     *handler.StatsHandler
	Imports   *handler.ImportHandler
	Chat      *handler.ChatHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(log *zap.Logger, allowedOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Extraction without persistence
	v1.POST("/extract", h.Extract.Extract)
	v1.POST("/extract/batch", h.Extract.ExtractBatch)

	// Stored documents
	docs := v1.Group("/documents")
	docs.POST("", h.Documents.Save)
	docs.GET("", h.Documents.List)
	docs.GET("/export", h.Documents.Export)
	docs.GET("/:id", h.Documents.GetByID)
	docs.GET("/:id/audit", h.Documents.ListAudit)
	docs.DELETE("/:id", h.Documents.Delete)

	v1.GET("/stats", h.Stats.GetStats)

	// Bulk imports
	imports := v1.Group("/imports")
	imports.POST("/markdown", h.Imports.ImportMarkdown)
	imports.POST("/csv", h.Imports.ImportCSV)
	imports.POST("/workbook", h.Imports.ImportWorkbook)
	imports.POST("/sheets", h.Imports.ImportSheets)

	// Chat
	chat := v1.Group("/chat/sessions")
	chat.POST("", h.Chat.CreateSession)
	chat.GET("/:id", h.Chat.GetSession)
	chat.DELETE("/:id", h.Chat.DeleteSession)
	chat.POST("/:id/messages", h.Chat.SendMessage)

	return r
}
