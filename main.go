package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"greentrip/database"
	"greentrip/handlers"
	"greentrip/services"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// New Relic first, so the database driver can be instrumented.
	var nrApp *newrelic.Application
	if key := os.Getenv("NEW_RELIC_LICENSE_KEY"); key != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(getEnv("NEW_RELIC_APP_NAME", "greentrip")),
			newrelic.ConfigLicense(key),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Printf("⚠️  Failed to initialize New Relic: %v", err)
		} else {
			log.Println("✅ New Relic enabled")
		}
	}

	// Database
	db, err := database.Open(ctx, nrApp)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer db.Close()
	store := database.NewStore(db)

	// Redis is optional: without it geocoding just skips the cache.
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️  Redis unreachable: %v — geocode caching disabled", err)
			redisClient = nil
		} else {
			log.Println("✅ Redis connected — geocode caching enabled")
		}
	}

	// Wire the pipeline: AI drafter, cached geocoder, calculator over the
	// database-backed factor table.
	drafter := services.NewAIClient()
	geocoder := services.NewCachedGeocoder(services.NewNominatimGeocoder(), redisClient)
	calc := services.NewCalculator(store)
	planner := services.NewPlanner(drafter, geocoder, calc)

	// Handlers
	tripHandler := handlers.NewTripHandler(planner, store)
	expenseHandler := handlers.NewExpenseHandler(store, tripHandler)
	statsHandler := handlers.NewStatsHandler(store, tripHandler)
	factorHandler := handlers.NewFactorHandler(store)
	healthHandler := handlers.NewHealthHandler(store)

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Trusted proxies (hosted platforms sit behind a proxy)
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// CORS — allow configured frontend origins
	frontendURLs := os.Getenv("FRONTEND_URL")
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if frontendURLs != "" {
		for _, u := range strings.Split(frontendURLs, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Routes
	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		api.POST("/trips", tripHandler.Create)
		api.GET("/trips", tripHandler.List)
		api.GET("/trips/:id", tripHandler.Get)
		api.DELETE("/trips/:id", tripHandler.Delete)
		api.GET("/trips/:id/pdf", tripHandler.PDF)

		api.POST("/trips/:id/expenses", expenseHandler.Create)
		api.GET("/trips/:id/expenses", expenseHandler.List)
		api.DELETE("/expenses/:id", expenseHandler.Delete)

		api.GET("/trips/:id/stats", statsHandler.TripStats)
		api.GET("/stats", statsHandler.UserStats)

		api.GET("/factors", factorHandler.List)
		api.POST("/factors", factorHandler.Create)
		api.PUT("/factors/:id", factorHandler.Update)
		api.POST("/factors/:id/deactivate", factorHandler.Deactivate)
		api.DELETE("/factors/:id", factorHandler.Delete)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🌍 GreenTrip backend starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
