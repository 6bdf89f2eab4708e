package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/portfolio-api/api/swagger"
	"github.com/noah-isme/portfolio-api/internal/handler"
	"github.com/noah-isme/portfolio-api/internal/repository"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/pkg/cache"
	"github.com/noah-isme/portfolio-api/pkg/config"
	"github.com/noah-isme/portfolio-api/pkg/database"
	"github.com/noah-isme/portfolio-api/pkg/jobs"
	"github.com/noah-isme/portfolio-api/pkg/logger"
	"github.com/noah-isme/portfolio-api/pkg/mailer"
	"github.com/noah-isme/portfolio-api/pkg/storage"
)

// @title Portfolio API
// @version 1.0.0
// @description Public site, contact intake and operator back office for a creator portfolio
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const exportCleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	siteConfigRepo := repository.NewSiteConfigRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}
	var cacheStore service.CacheRepository
	if cacheRepo != nil {
		cacheStore = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheStore, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	notifier := service.NewNotificationService(mailer.NewSMTPMailer(cfg.Mail), metrics, service.NotificationConfig{
		Enabled:   cfg.Mail.Enabled,
		Recipient: cfg.Mail.Recipient,
		Timeout:   cfg.Mail.Timeout,
		Async:     cfg.Notifications.Async,
	}, logr)
	var queue *jobs.Queue
	if cfg.Notifications.Async {
		queue = jobs.NewQueue("notifications", notifier.HandleJob, jobs.QueueConfig{
			Workers:    cfg.Notifications.Workers,
			BufferSize: cfg.Notifications.BufferSize,
			JobTimeout: cfg.Mail.Timeout,
			Logger:     logr,
		})
		// Not tied to the signal context: requests still in flight during
		// shutdown must be able to enqueue.
		queue.Start(context.Background())
		notifier.AttachQueue(queue)
	}

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	submissionSvc := service.NewSubmissionService(submissionRepo, packageRepo, serviceRepo, notifier, metrics, logr)
	moderationSvc := service.NewModerationService(submissionRepo, userRepo, metrics, logr)
	catalogSvc := service.NewCatalogService(packageRepo, serviceRepo, cacheSvc, validate, userRepo, logr)
	siteSvc := service.NewSiteConfigService(siteConfigRepo, cacheSvc, validate, userRepo, logr)
	contentSvc := service.NewContentService(portfolioRepo, galleryRepo, siteSvc, cacheSvc, validate, userRepo, logr)
	exportSvc := service.NewExportService(submissionRepo, exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, userRepo, logr)
	go runExportCleanup(ctx, exportSvc, logr)

	checks := map[string]handler.Pinger{"database": db}
	if cacheRepo != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}

	router := newRouter(cfg, logr, metrics, authSvc, routeHandlers{
		auth:        handler.NewAuthHandler(authSvc),
		submissions: handler.NewSubmissionHandler(submissionSvc),
		admin:       handler.NewModerationHandler(moderationSvc, service.AdminView{}),
		studio:      handler.NewModerationHandler(moderationSvc, service.AdminView{Simplified: true}),
		exports:     handler.NewExportHandler(exportSvc),
		catalog:     handler.NewCatalogHandler(catalogSvc),
		site:        handler.NewSiteHandler(siteSvc),
		content:     handler.NewContentHandler(contentSvc),
		metrics:     handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if queue != nil {
		queue.Stop()
	}
}

func runExportCleanup(ctx context.Context, exports *service.ExportService, logr *zap.Logger) {
	ticker := time.NewTicker(exportCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := exports.Cleanup(0); err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
			}
		}
	}
}
