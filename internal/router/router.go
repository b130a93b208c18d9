package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"seacrew/internal/docs"
	"seacrew/internal/domain"
	"seacrew/internal/handler"
	"seacrew/internal/middleware"
	"seacrew/internal/port"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Record       *handler.RecordHandler
	Verification *handler.VerificationHandler
	Health       *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(verifier port.TokenVerifier, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	// Protected routes - require valid JWT
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(verifier))

	writers := middleware.RequireRole(domain.RoleAdmin, domain.RoleOperator)

	crew := v1.Group("/crew-members")
	crew.POST("", writers, h.Record.CreateCrewMember)
	crew.GET("/:id", h.Record.GetCrewMember)
	crew.GET("/:id/documents", h.Record.ListDocuments)

	documents := v1.Group("/documents")
	documents.POST("", writers, h.Record.CreateDocument)
	documents.GET("/:id", h.Record.GetDocument)
	documents.POST("/:id/verify", writers, h.Verification.Verify)
	documents.GET("/:id/scans", h.Verification.ListScans)
	documents.GET("/:id/scans/active", h.Verification.GetActiveScan)
	documents.GET("/:id/scans/export", h.Verification.ExportScans)

	return r
}
