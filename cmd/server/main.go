package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civic-connect.backend/internal/config"
	"civic-connect.backend/internal/domain/repositories"
	"civic-connect.backend/internal/infrastructure/identity"
	"civic-connect.backend/internal/infrastructure/memstore"
	"civic-connect.backend/internal/infrastructure/otp"
	gormrepos "civic-connect.backend/internal/infrastructure/repositories"
	"civic-connect.backend/internal/infrastructure/sms"
	"civic-connect.backend/internal/infrastructure/storage"
	"civic-connect.backend/internal/interfaces/http/handlers"
	"civic-connect.backend/internal/interfaces/http/middleware"
	"civic-connect.backend/internal/usecases"
	"civic-connect.backend/pkg/jwt"
	"civic-connect.backend/pkg/logger"
	"civic-connect.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	// DisableAutomaticPing keeps gorm.Open from dialing eagerly so a
	// down database still yields a handle and boot can degrade to the
	// memory fallback; reachability is probed with the manual ping below.
	openDB = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:          false,
			DisableAutomaticPing: true,
		})
	}
	newOTPStore = otp.NewStore
	runServer   = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB    = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM. An unreachable database is not
	// fatal: issue reporting degrades to the in-memory store.
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (issue storage falls back to memory)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionExpiry)

	// Initialize repositories
	userRepo := gormrepos.NewUserRepository(db)
	issueRepo := gormrepos.NewIssueRepository(db)
	vouchRepo := gormrepos.NewVouchRepository(db)
	fallbackStore := memstore.New()

	// Initialize OTP challenge store
	otpStore, err := newOTPStore(cfg.OTP.EncryptionKey, cfg.OTP.Expiry)
	if err != nil {
		return fmt.Errorf("failed to initialize otp store: %w", err)
	}

	// Initialize media storage
	var mediaStore repositories.MediaStore
	if cfg.Storage.Endpoint != "" {
		mediaStore, err = storage.NewS3Store(context.Background(), cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		log.Println("✅ Media uploads go to object storage")
	} else {
		mediaStore, err = storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBase)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		log.Printf("⚠️ Media uploads go to local disk at %s", cfg.Storage.LocalDir)
	}

	// Initialize delegated identity verifier
	verifier := identity.NewVerifier(cfg.Firebase.ProjectID)
	if cfg.Firebase.ProjectID == "" {
		log.Println("⚠️ FIREBASE_PROJECT_ID not set, Firebase auth is disabled")
	}

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, otpStore, sms.NewLogSender(), verifier, jwtService)
	issueUsecase := usecases.NewIssueUsecase(issueRepo, fallbackStore, mediaStore)
	vouchUsecase := usecases.NewVouchUsecase(vouchRepo, fallbackStore, issueRepo, fallbackStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	issueHandler := handlers.NewIssueHandler(issueUsecase)
	vouchHandler := handlers.NewVouchHandler(vouchUsecase)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r, cfg.CORS.AllowOrigins)
	registerHealthRoute(r)
	registerRoutes(r, routeDeps{
		authHandler:  authHandler,
		issueHandler: issueHandler,
		vouchHandler: vouchHandler,
		optionalAuth: middleware.OptionalAuth(authUsecase),
		requireAuth:  middleware.RequireAuth(authUsecase),
	})

	// Serve local uploads when no object storage is configured
	if cfg.Storage.Endpoint == "" {
		r.Static(cfg.Storage.PublicBase, cfg.Storage.LocalDir)
	}

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			log.Println("🛑 Shutting down server...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Start server
	log.Printf("🚀 Civic-Connect Backend starting on port %s", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
