package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/mealsnap/backend/config"
	"github.com/pageza/mealsnap/backend/internal/api"
	"github.com/pageza/mealsnap/backend/internal/database"
	"github.com/pageza/mealsnap/backend/internal/middleware"
	"github.com/pageza/mealsnap/backend/internal/router"
	"github.com/pageza/mealsnap/backend/internal/server"
	"github.com/pageza/mealsnap/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]func(ctx context.Context) error)

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	foods, db, err := database.OpenCustomFoodStore(cfg, redisClient)
	if err != nil {
		return err
	}
	if db != nil {
		checks["database"] = func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		}
	}

	var meals service.MealRepository = database.NewMemoryMealRepository()
	if cfg.MealStore == config.StoreRedis {
		meals = database.NewRedisMealRepository(redisClient)
	}

	table, err := service.LoadFoodTable(cfg.FoodTablePath)
	if err != nil {
		return fmt.Errorf("failed to load food table: %w", err)
	}

	estimator := service.NewEstimationService(service.EstimationConfig{
		APIKey:     cfg.OpenAIAPIKey,
		APIURL:     cfg.OpenAIAPIURL,
		Model:      cfg.OpenAIModel,
		ImageDelay: cfg.ImageAnalysisDelay,
	})

	var images service.ImageStore = service.NewMemoryImageStore()
	if cfg.S3BucketName != "" {
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize S3: %w", err)
		}
		images = service.NewS3ImageStore(s3Config)
		log.Printf("[Server] Storing meal photos in bucket %s", cfg.S3BucketName)
	}

	resolver := service.NewFoodResolver(foods, table, estimator)
	mealService := service.NewMealService(meals, estimator, nil)
	drafts := service.NewDraftService(mealService, resolver, cfg.DebounceWindow, nil)
	defer drafts.Close()

	deps := api.Dependencies{
		Foods:        service.NewFoodService(resolver, foods),
		Meals:        mealService,
		Drafts:       drafts,
		Images:       images,
		AIConfigured: estimator.Configured(),
		HealthChecks: checks,
	}
	if redisClient != nil {
		limiter := middleware.NewEstimationRateLimiter(redisClient, cfg.AIRequestsPerHour)
		deps.EstimationLimit = limiter.RateLimitMiddleware()
		deps.EstimationQuota = limiter.QuotaHandler()
	}

	srv := server.New(cfg.Addr(), router.SetupRouter(cfg.CORSOrigins, deps))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[Server] Listening on %s (custom foods: %s, meals: %s)", cfg.Addr(), cfg.CustomFoodStore, cfg.MealStore)
		return srv.Run(ctx, shutdownTimeout)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Println("[Server] Stopped")
	return nil
}
