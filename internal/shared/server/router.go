package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docpipe-backend/internal/documents"
	"docpipe-backend/internal/notify"
	"docpipe-backend/internal/services/health"
	"docpipe-backend/internal/shared/config"
	"docpipe-backend/internal/shared/metrics"
	"docpipe-backend/internal/shared/server/middleware"
	"docpipe-backend/internal/shared/server/respond"
	"docpipe-backend/internal/shared/storage/db"
	"docpipe-backend/internal/shared/storage/object"
	localstore "docpipe-backend/internal/shared/storage/object/local"
	s3store "docpipe-backend/internal/shared/storage/object/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
// The object store backend and the notifier are selected here, once per
// process, from configuration.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
	)

	store := buildObjectStore(cfg)

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn.Close()
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo documents.DocumentsRepo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	var notifier notify.Client
	if cfg.IndexerQueueURL != "" {
		client, err := notify.NewSQSClient(context.Background(), cfg.AWSRegion, cfg.IndexerQueueURL)
		if err != nil {
			log.Printf("failed to init indexer notifier, notifications disabled: %v", err)
		} else {
			notifier = client
		}
	}

	docSvc := &documents.Service{Store: store, Repo: docRepo, Notifier: notifier}
	docHandler := documents.NewHandler(docSvc)
	healthSvc := health.NewService()

	uploadLimiter := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"UPLOAD": {Rate: 1, Burst: 10},
		},
		DefaultGroup: "READ",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost {
				return "UPLOAD"
			}
			return "READ"
		},
	})

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/metrics", metrics.Handler())
	api.Use(uploadLimiter)
	docHandler.RegisterRoutes(api)

	return r
}

func buildObjectStore(cfg config.Config) object.ObjectStore {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("failed to init s3 store, falling back to local: %v", err)
		} else {
			return store
		}
	}
	return localstore.New(cfg.LocalStoreDir)
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
