package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/handler"
	internalmiddleware "github.com/noah-isme/portfolio-api/internal/middleware"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/pkg/config"
	"github.com/noah-isme/portfolio-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/portfolio-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/portfolio-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth        *handler.AuthHandler
	submissions *handler.SubmissionHandler
	admin       *handler.ModerationHandler
	studio      *handler.ModerationHandler
	exports     *handler.ExportHandler
	catalog     *handler.CatalogHandler
	site        *handler.SiteHandler
	content     *handler.ContentHandler
	metrics     *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, tokens internalmiddleware.TokenValidator, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/metrics", h.metrics.Prometheus)
	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/contact", h.submissions.Contact)
		api.POST("/quote", h.submissions.Quote)

		api.GET("/site", h.site.Public)
		api.GET("/home", h.content.Home)
		api.GET("/packages", h.catalog.PublicPackages)
		api.GET("/services", h.catalog.ServiceChoices)
		api.GET("/portfolio", h.content.ListPortfolio)
		api.GET("/portfolio/:slug", h.content.PortfolioDetail)
		api.GET("/exports/:token", h.exports.Download)

		api.POST("/auth/login", h.auth.Login)
		api.GET("/auth/me", internalmiddleware.JWT(tokens), h.auth.Me)
	}

	admin := api.Group("/admin", internalmiddleware.JWT(tokens), internalmiddleware.RequireOperator())
	registerSubmissionRoutes(admin, h.admin, h.exports)

	admin.GET("/packages", h.catalog.ListPackages)
	admin.POST("/packages", h.catalog.CreatePackage)
	admin.PUT("/packages/:id", h.catalog.UpdatePackage)
	admin.PATCH("/packages/:id/active", h.catalog.SetPackageActive)
	admin.DELETE("/packages/:id", h.catalog.DeletePackage)
	admin.GET("/services", h.catalog.ListServices)
	admin.POST("/services", h.catalog.CreateService)
	admin.PUT("/services/:id", h.catalog.UpdateService)

	admin.GET("/site-config", h.site.Get)
	admin.POST("/site-config", h.site.Create)
	admin.PUT("/site-config", h.site.Update)

	admin.GET("/portfolio", h.content.AdminListPortfolio)
	admin.POST("/portfolio", h.content.CreatePortfolioItem)
	admin.PUT("/portfolio/:id", h.content.UpdatePortfolioItem)
	admin.GET("/gallery", h.content.ListGallery)
	admin.POST("/gallery", h.content.CreateGalleryImage)
	admin.POST("/gallery/bulk-active", h.content.SetGalleryActive)
	admin.GET("/profile-images", h.content.ListProfileImages)
	admin.POST("/profile-images", h.content.CreateProfileImage)
	admin.POST("/profile-images/bulk-active", h.content.SetProfileImagesActive)

	// The studio surface exposes the same moderation workflow with trimmed records.
	studio := api.Group("/studio", internalmiddleware.JWT(tokens), internalmiddleware.RequireOperator())
	registerSubmissionRoutes(studio, h.studio, h.exports)

	return r
}

func registerSubmissionRoutes(group *gin.RouterGroup, moderation *handler.ModerationHandler, exports *handler.ExportHandler) {
	submissions := group.Group("/submissions/:kind")
	submissions.GET("", moderation.List)
	submissions.POST("/bulk-status", moderation.BulkStatus)
	submissions.POST("/export", exports.Create)
	submissions.GET("/:id", moderation.Get)
	submissions.PATCH("/:id/status", moderation.SetStatus)
	submissions.POST("/:id/resolve", moderation.MarkResolved)
	submissions.POST("/:id/unresolve", moderation.MarkUnresolved)
	submissions.DELETE("/:id", moderation.Delete)
}
