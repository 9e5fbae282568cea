package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	echoapi "github.com/farmcare/farmcare/api/echo"
	"github.com/farmcare/farmcare/cache"
	rediscache "github.com/farmcare/farmcare/cache/redis"
	"github.com/farmcare/farmcare/config"
	"github.com/farmcare/farmcare/internal/auth"
	"github.com/farmcare/farmcare/internal/classifier"
	"github.com/farmcare/farmcare/internal/metrics"
	"github.com/farmcare/farmcare/internal/storage"
	flog "github.com/farmcare/farmcare/log"
	"github.com/farmcare/farmcare/mongodb"
	"github.com/farmcare/farmcare/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	flog.Setup(cfg.LogLevel, cfg.LogPretty)
	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("mongo_db_name", cfg.MongoDBName).
		Str("log_level", cfg.LogLevel).
		Msg("Starting farmcare server")

	metrics.InitCustomMetrics(prometheus.DefaultRegisterer)

	ctx := context.Background()
	if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MongoDB connection")
	}
	db := mongodb.GetDB()

	// Repositories
	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize UserRepository")
	}
	schemeRepo, err := mongodb.NewSchemeRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize SchemeRepository")
	}
	priceRepo, err := mongodb.NewPriceRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PriceRepository")
	}
	articleRepo, err := mongodb.NewArticleRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ArticleRepository")
	}
	newsRepo, err := mongodb.NewNewsRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize NewsRepository")
	}
	uploadRepo, err := mongodb.NewUploadRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize UploadRepository")
	}
	denyRepo, err := mongodb.NewDenylistRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize DenylistRepository")
	}

	// Revoked-token cache: Redis when configured, otherwise in-process.
	var denyCache cache.DenyStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		denyCache = rediscache.NewDenyStore(rdb, "farmcare")
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis denylist cache")
	} else {
		denyCache = cache.NewMemoryDenyStore(time.Hour)
	}

	// Object storage for uploaded images.
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS configuration")
	}
	objectStore := storage.NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Region)

	// Services
	passwordHasher := auth.NewBcryptPasswordHasher(bcrypt.DefaultCost)
	tokenService := services.NewTokenService(
		cfg.JWTSecretKey,
		time.Duration(cfg.UserTokenTTLHour)*time.Hour,
		time.Duration(cfg.AdminTokenTTLHour)*time.Hour,
		denyRepo,
		denyCache,
	)
	authService := services.NewAuthService(userRepo, tokenService, passwordHasher, cfg.AdminRegKey)
	schemeService := services.NewSchemeService(schemeRepo)
	priceService := services.NewPriceService(priceRepo)
	articleService := services.NewArticleService(articleRepo)
	newsService := services.NewNewsService(newsRepo)
	weatherService := services.NewWeatherService(cfg.OpenWeatherAPIKey, 10*time.Minute)
	uploadService := services.NewUploadService(uploadRepo, objectStore, classifier.NewClient(cfg.ClassifierEndpoint))

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	api := echoapi.NewFarmCareAPI(
		authService,
		tokenService,
		schemeService,
		priceService,
		articleService,
		newsService,
		weatherService,
		uploadService,
	)
	api.RegisterRoutes(e)

	go func() {
		log.Info().Msgf("HTTP server listening on port %s", cfg.HTTPPort)
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	log.Info().Msgf("Received signal: %v. Shutting down server...", receivedSignal)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	weatherService.Close()
	if err := denyCache.Close(); err != nil {
		log.Error().Err(err).Msg("Denylist cache shutdown error")
	}
	mongodb.CloseMongoDB(shutdownCtx)

	log.Info().Msg("Server gracefully stopped.")
}
