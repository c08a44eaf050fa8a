package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"property-admin/internal/auth"
	"property-admin/internal/config"
	"property-admin/internal/database"
	"property-admin/internal/events"
	"property-admin/internal/handlers"
	"property-admin/internal/ratelimit"
	"property-admin/internal/scheduler"
	"property-admin/internal/search"
	"property-admin/internal/snapshot"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	db              *database.DB
	gormDB          *database.GormDB
	searchClient    *search.SearchClient
	appConfig       *config.Config
	rateLimiter     *ratelimit.RateLimiter
	appScheduler    *scheduler.Scheduler
	snapshotService *snapshot.Service
	bus             *events.Bus
)

func main() {
	// Load .env if present; real deployments use the YAML config
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	configPath := getEnv("CONFIG_PATH", "/app/config/admin_config.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	loc := appConfig.Location()

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	if dbType == "mysql" {
		log.Println("Using MySQL with GORM")
		mysqlCfg := appConfig.Database.MySQL

		// Get port as string, handle 0 as empty
		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gormDB, err = database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "property_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "property_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "property_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		defer gormDB.Close()

		// Initialize schema with GORM AutoMigrate
		if err := gormDB.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Println("Using PostgreSQL (read-only legacy mode)")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		db, err = database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "property_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "property_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "property_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	// Initialize Meilisearch using config
	meilisearchHost := appConfig.Search.Meilisearch.Host
	if meilisearchHost == "" {
		meilisearchHost = getEnv("MEILISEARCH_HOST", "http://meilisearch:7700")
	}
	meilisearchKey := appConfig.Search.Meilisearch.APIKey
	if meilisearchKey == "" {
		meilisearchKey = getEnv("MEILISEARCH_KEY", "masterKey123")
	}

	searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)

	// Wait for Meilisearch to be ready
	time.Sleep(2 * time.Second)

	if err := searchClient.InitIndex(); err != nil {
		log.Printf("Warning: Failed to initialize search index: %v", err)
	}

	// Initialize rate limiter for mutation routes
	rateLimiter = ratelimit.NewRateLimiter(ratelimit.Limits{
		PerMinute: appConfig.RateLimit.RequestsPerMinute,
		PerHour:   appConfig.RateLimit.RequestsPerHour,
		PerDay:    appConfig.RateLimit.RequestsPerDay,
		Enabled:   appConfig.RateLimit.Enabled,
	})
	log.Printf("Rate limiter initialized: %d req/min, %d req/hour, %d req/day (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)

	// In-process event bus: mutations fan out to the search index and audit log
	bus = events.NewBus()
	if gormDB != nil {
		wireSubscribers()
	}

	// Initialize snapshot service and scheduler (MySQL only)
	if gormDB != nil {
		snapshotService = snapshot.NewService(gormDB.DB(), loc)
		log.Println("Snapshot service initialized")

		appScheduler = scheduler.NewScheduler(gormDB, snapshotService, appConfig)
		if err := appScheduler.Start(); err != nil {
			log.Printf("Warning: Failed to start scheduler: %v", err)
		}
		defer appScheduler.Stop()
	}

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	allowOrigins := appConfig.Server.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:5176"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Routes
	r.GET("/health", healthCheck)
	r.GET("/api/ratelimit/stats", getRateLimitStats)

	if gormDB != nil {
		registerAPIRoutes(r, loc)
	} else {
		registerLegacyRoutes(r)
	}

	port := getEnv("PORT", strconv.Itoa(appConfig.Server.Port))
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// wireSubscribers connects the event bus to the search index and audit log
func wireSubscribers() {
	// Unit mutations invalidate the search index
	bus.Subscribe(events.TopicUnitCreated, reindexUnit)
	bus.Subscribe(events.TopicUnitUpdated, reindexUnit)
	bus.Subscribe(events.TopicUnitDeleted, func(e events.Event) {
		if err := searchClient.DeleteUnit(e.EntityID); err != nil {
			log.Printf("Warning: Failed to remove unit %d from index: %v", e.EntityID, err)
		}
	})

	// Every mutation lands in the audit log
	bus.SubscribeAll(func(e events.Event) {
		action := string(e.Topic)
		if err := gormDB.RecordAudit(e.Entity, e.EntityID, action, ""); err != nil {
			log.Printf("Warning: Failed to audit %s: %v", action, err)
		}
	})
}

func reindexUnit(e events.Event) {
	unit, err := gormDB.GetUnitByID(e.EntityID)
	if err != nil {
		log.Printf("Warning: Failed to load unit %d for indexing: %v", e.EntityID, err)
		return
	}
	if err := searchClient.IndexUnit(unit); err != nil {
		log.Printf("Warning: Failed to index unit %d: %v", e.EntityID, err)
	}
}

// registerAPIRoutes wires the full route table against MySQL/GORM
func registerAPIRoutes(r *gin.Engine, loc *time.Location) {
	unitHandler := handlers.NewUnitHandler(gormDB, searchClient, bus)
	rentHandler := handlers.NewRentHandler(gormDB, bus)
	paymentHandler := handlers.NewPaymentHandler(gormDB, bus, loc)
	calendarHandler := handlers.NewCalendarHandler(gormDB, loc)
	resourceHandler := handlers.NewResourceHandler(gormDB)

	limited := rateLimitMiddleware()

	// Units
	r.GET("/api/units", unitHandler.ListUnits)
	r.GET("/api/units/:id", unitHandler.GetUnit)
	r.POST("/api/units", limited, unitHandler.CreateUnit)
	r.PATCH("/api/units/:id", limited, unitHandler.UpdateUnit)
	r.DELETE("/api/units/:id", limited, unitHandler.DeleteUnit)

	// Unit search
	r.GET("/api/search", unitHandler.SearchUnits)
	r.POST("/api/search/advanced", unitHandler.AdvancedSearchUnits)
	r.GET("/api/search/facets", unitHandler.GetSearchFacets)
	r.POST("/api/search/reindex", unitHandler.ReindexUnits)

	// Rents
	r.GET("/api/rents", rentHandler.ListRents)
	r.GET("/api/rents/:id", rentHandler.GetRent)
	r.GET("/api/rents/:id/duration", calendarHandler.GetRentDuration)
	r.POST("/api/rents", limited, rentHandler.CreateRent)
	r.PATCH("/api/rents/:id", limited, rentHandler.UpdateRent)
	r.DELETE("/api/rents/:id", limited, rentHandler.DeleteRent)

	// Occasional payments, scoped to a unit
	r.GET("/api/units/:id/payments", paymentHandler.ListPayments)
	r.POST("/api/units/:id/payments", limited, paymentHandler.CreatePayment)
	r.PATCH("/api/units/:id/payments/:paymentId", limited, paymentHandler.UpdatePayment)
	r.DELETE("/api/units/:id/payments/:paymentId", limited, paymentHandler.DeletePayment)

	// Merged ledger and revenue roll-up
	r.GET("/api/payments/ledger", paymentHandler.GetLedger)
	r.GET("/api/payments/summary", paymentHandler.GetSummary)

	// Calendar
	r.GET("/api/calendar", calendarHandler.GetCalendar)

	// Flat CRUD resources
	registerResourceRoutes(r, resourceHandler, limited)

	// Admin API routes behind bearer auth
	adminHandler := handlers.NewAdminHandler(gormDB, appScheduler, snapshotService, rateLimiter)

	admin := r.Group("/api/admin")
	admin.Use(auth.Middleware(&appConfig.Auth))
	{
		// Statistics
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/activity", adminHandler.GetRecentActivity)
		admin.GET("/city-stats", adminHandler.GetCityStats)
		admin.GET("/price-distribution", adminHandler.GetPriceDistribution)

		// Scheduler control
		admin.POST("/scheduler/run", adminHandler.TriggerDailyRun)

		// Revenue snapshots
		admin.GET("/revenue/history", adminHandler.GetRevenueHistory)
		admin.GET("/revenue/latest", adminHandler.GetLatestSnapshot)

		// Cleanup operations
		admin.POST("/cleanup/run", adminHandler.RunCleanup)
		admin.GET("/cleanup/logs", adminHandler.GetCleanupLogs)
	}

	log.Println("Admin API routes registered at /api/admin/*")
}

func registerResourceRoutes(r *gin.Engine, h *handlers.ResourceHandler, limited gin.HandlerFunc) {
	r.GET("/api/buildings", h.ListBuildings)
	r.GET("/api/buildings/:id", h.GetBuilding)
	r.POST("/api/buildings", limited, h.CreateBuilding)
	r.PATCH("/api/buildings/:id", limited, h.UpdateBuilding)
	r.DELETE("/api/buildings/:id", limited, h.DeleteBuilding)

	r.GET("/api/owners", h.ListOwners)
	r.GET("/api/owners/:id", h.GetOwner)
	r.POST("/api/owners", limited, h.CreateOwner)
	r.PATCH("/api/owners/:id", limited, h.UpdateOwner)
	r.DELETE("/api/owners/:id", limited, h.DeleteOwner)

	r.GET("/api/tenants", h.ListTenants)
	r.GET("/api/tenants/:id", h.GetTenant)
	r.POST("/api/tenants", limited, h.CreateTenant)
	r.PATCH("/api/tenants/:id", limited, h.UpdateTenant)
	r.DELETE("/api/tenants/:id", limited, h.DeleteTenant)

	r.GET("/api/contracts", h.ListContracts)
	r.GET("/api/contracts/:id", h.GetContract)
	r.POST("/api/contracts", limited, h.CreateContract)
	r.PATCH("/api/contracts/:id", limited, h.UpdateContract)
	r.DELETE("/api/contracts/:id", limited, h.DeleteContract)

	r.GET("/api/maintenance", h.ListMaintenanceRequests)
	r.GET("/api/maintenance/:id", h.GetMaintenanceRequest)
	r.POST("/api/maintenance", limited, h.CreateMaintenanceRequest)
	r.PATCH("/api/maintenance/:id", limited, h.UpdateMaintenanceRequest)
	r.DELETE("/api/maintenance/:id", limited, h.DeleteMaintenanceRequest)

	r.GET("/api/reviews", h.ListReviews)
	r.GET("/api/reviews/:id", h.GetReview)
	r.POST("/api/reviews", limited, h.CreateReview)
	r.PATCH("/api/reviews/:id", limited, h.UpdateReview)
	r.DELETE("/api/reviews/:id", limited, h.DeleteReview)
}

// registerLegacyRoutes exposes the read-only Postgres surface. Mutations
// require MySQL/GORM and return 503 here.
func registerLegacyRoutes(r *gin.Engine) {
	r.GET("/api/units", func(c *gin.Context) {
		units, err := db.GetAllUnits()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"units": units, "count": len(units)})
	})
	r.GET("/api/units/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit id"})
			return
		}
		unit, err := db.GetUnitByID(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
			return
		}
		c.JSON(http.StatusOK, unit)
	})
	r.GET("/api/rents", func(c *gin.Context) {
		rents, err := db.GetRents(database.RentFilters{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rents": rents, "count": len(rents)})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "This deployment is read-only (MySQL/GORM required for the full API)",
		})
	})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

// rateLimitMiddleware returns a Gin middleware that enforces rate limiting
func rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimiter.AllowRequest() {
			stats := rateLimiter.GetStats()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
				"stats":   stats,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// getRateLimitStats returns current rate limiter statistics
func getRateLimitStats(c *gin.Context) {
	stats := rateLimiter.GetStats()
	c.JSON(http.StatusOK, stats)
}
