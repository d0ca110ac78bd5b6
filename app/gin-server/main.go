package main

import (
	"context"
	"errors"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/cv-enhancer/config"
	"github.com/yoockh/cv-enhancer/internal/api/handlers"
	"github.com/yoockh/cv-enhancer/internal/api/middleware"
	"github.com/yoockh/cv-enhancer/internal/api/routes"
	"github.com/yoockh/cv-enhancer/internal/events"
	"github.com/yoockh/cv-enhancer/internal/logger"
	"github.com/yoockh/cv-enhancer/internal/providers/extractor"
	"github.com/yoockh/cv-enhancer/internal/providers/identity"
	mongorepo "github.com/yoockh/cv-enhancer/internal/repositories/mongo"
	pgrepo "github.com/yoockh/cv-enhancer/internal/repositories/postgres"
	"github.com/yoockh/cv-enhancer/internal/services"
	"github.com/yoockh/cv-enhancer/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	app := config.LoadApp()
	ctx := context.Background()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	log.Info("PostgreSQL connected")

	users := pgrepo.NewUserRepo(config.PostgresDB)
	cvs := pgrepo.NewCVRepo(config.PostgresDB)

	deps := services.UploadDeps{
		Tx:         pgrepo.NewTransactor(config.PostgresDB),
		Logger:     log,
		ExtractTTL: app.ExtractionTimeout,
	}

	// Init Redis (optional)
	var sub events.Subscriber
	var pub events.Publisher = events.Nop{}
	if err := config.InitRedis(); err != nil {
		optional(log, "Redis", err)
	} else {
		bus := events.NewRedisBus(config.RedisClient)
		pub, sub = bus, bus
		deps.Events = bus
		log.Info("Redis connected")
	}

	// Init MongoDB (optional)
	if err := config.InitMongo(); err != nil {
		optional(log, "MongoDB", err)
	} else {
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Warn("MongoDB index setup failed")
		}
		deps.Audit = mongorepo.NewExtractionRepo(config.MongoDatabase(), 0)
		log.Info("MongoDB connected")
	}

	// Object storage (optional)
	if app.GCSBucket != "" {
		up, err := storage.NewGCSUploader(ctx, app.GCSBucket)
		if err != nil {
			log.WithError(err).Warn("GCS disabled")
		} else {
			defer up.Close()
			deps.Uploader = up
		}
	}

	ext, err := newExtractor(ctx, app)
	if err != nil {
		log.WithError(err).Fatal("extractor init error")
	}
	defer ext.Close()
	deps.Extractor = ext

	var resolver identity.Resolver
	if app.ClerkJWTKey == "" {
		log.Warn("CLERK_JWT_KEY is not set, every request is anonymous")
	} else {
		clerk, err := identity.NewClerkResolver(app.ClerkJWTKey, app.ClerkAuthorizedParties)
		if err != nil {
			log.WithError(err).Fatal("invalid CLERK_JWT_KEY")
		}
		resolver = clerk
	}

	userSvc := services.NewUserService(users, pub, log)
	cvSvc := services.NewCVService(cvs)
	deps.Users = userSvc
	deps.CVs = cvSvc
	uploadSvc := services.NewUploadService(deps)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(app.CORSOrigins))
	r.Use(middleware.Identity(resolver, log))
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Upload: handlers.NewUploadHandler(uploadSvc, app.MaxUploadBytes, app.ClerkSignInURL, app.ClerkSignOutURL, log),
		CV:     handlers.NewCVHandler(userSvc, cvSvc),
		WS:     handlers.NewWSHandler(sub, app.CORSOrigins, log),
	})

	log.WithField("port", app.Port).Info("listening")
	if err := r.Run(":" + app.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newExtractor(ctx context.Context, app config.App) (extractor.Extractor, error) {
	switch app.Extractor {
	case config.ExtractorGemini:
		if app.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required for EXTRACTOR=gemini")
		}
		return extractor.NewLangchainGemini(ctx, app.GeminiAPIKey, app.GeminiModel)
	case config.ExtractorVertex:
		if app.GCPProject == "" {
			return nil, errors.New("GCP_PROJECT is required for EXTRACTOR=vertex")
		}
		return extractor.NewVertexGemini(ctx, app.GCPProject, app.GCPLocation, app.GeminiModel)
	default:
		return nil, errors.New("unknown EXTRACTOR " + app.Extractor)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	cfg.AddExposeHeaders(middleware.RequestIDHeader)
	return cors.New(cfg)
}

func optional(log *logrus.Logger, name string, err error) {
	if errors.Is(err, config.ErrNotConfigured) {
		log.Warnf("%s not configured, feature disabled", name)
		return
	}
	log.WithError(err).Warnf("%s unavailable, feature disabled", name)
}
