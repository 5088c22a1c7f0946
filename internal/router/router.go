package router

import (
	"context"
	"time"

	"kitchenops/internal/config"
	"kitchenops/internal/handler"
	"kitchenops/internal/infra"
	"kitchenops/internal/middleware"
	"kitchenops/internal/repository"
	"kitchenops/internal/service"
	"kitchenops/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus a
// start function for the background workers.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, func(ctx context.Context)) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	consumptionRepo := repository.NewConsumptionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo)
	locationSvc := service.NewLocationService(locationRepo, productRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo, locationRepo, productRepo)
	consumptionSvc := service.NewConsumptionService(consumptionRepo, inventoryRepo, locationRepo)
	orderSvc := service.NewOrderService(orderRepo, locationRepo, productRepo, inventoryRepo, consumptionRepo, dispatcher)
	recipeSvc := service.NewRecipeService(recipeRepo, productRepo, rdb)
	reportSvc := service.NewReportService(consumptionRepo, locationRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	locationsH := handler.NewLocationsHandler(locationSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	consumptionH := handler.NewConsumptionHandler(consumptionSvc, reportSvc)
	ordersH := handler.NewOrdersHandler(orderSvc, orderRepo, cfg.PDFStoragePath)
	recipesH := handler.NewRecipesHandler(recipeSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: staff, manager, admin — declared per-endpoint

		// Products — everyone reads, admin writes
		v1.GET("/products", middleware.RequireRole("staff", "manager", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("staff", "manager", "admin"), productsH.Get)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Locations and stations
		v1.GET("/locations", middleware.RequireRole("staff", "manager", "admin"), locationsH.List)
		v1.GET("/locations/:id", middleware.RequireRole("staff", "manager", "admin"), locationsH.Get)
		locs := v1.Group("/locations", middleware.RequireRole("admin"))
		{
			locs.POST("", locationsH.Create)
			locs.PUT("/:id", locationsH.Update)
			locs.POST("/:id/stations", locationsH.CreateStation)
		}

		// Station count sheets — managers maintain them, staff read them
		v1.GET("/stations/:id/products", middleware.RequireRole("staff", "manager", "admin"), locationsH.StationSheet)
		stations := v1.Group("/stations", middleware.RequireRole("manager", "admin"))
		{
			stations.POST("/:id/products", locationsH.AssignProduct)
			stations.DELETE("/:id/products/:productId", locationsH.UnassignProduct)
		}

		// Inventory counts and production logs — every role records
		inv := v1.Group("/inventory", middleware.RequireRole("staff", "manager", "admin"))
		{
			inv.POST("/counts", inventoryH.RecordCount)
			inv.GET("/counts", inventoryH.ListCounts)
			inv.POST("/production", inventoryH.LogProduction)
			inv.GET("/production", inventoryH.ListProduction)
		}

		// Consumption — manual recompute is a manager action
		cons := v1.Group("/consumption", middleware.RequireRole("manager", "admin"))
		{
			cons.POST("/calculate", consumptionH.Calculate)
			cons.POST("/calculate-all", consumptionH.CalculateAll)
		}
		v1.GET("/locations/:id/consumption", middleware.RequireRole("staff", "manager", "admin"), consumptionH.ListByLocation)
		v1.GET("/locations/:id/consumption/export", middleware.RequireRole("manager", "admin"), consumptionH.ExportXLSX)

		// Orders
		orders := v1.Group("/orders", middleware.RequireRole("manager", "admin"))
		{
			orders.POST("/generate", ordersH.Generate)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.PATCH("/:id/status", ordersH.UpdateStatus)
			orders.PATCH("/:id/items/:itemId", ordersH.UpdateItem)
			orders.GET("/:id/pdf", ordersH.DownloadPDF)
		}

		// Recipes
		v1.GET("/recipes", middleware.RequireRole("staff", "manager", "admin"), recipesH.List)
		v1.GET("/recipes/:id", middleware.RequireRole("staff", "manager", "admin"), recipesH.Get)
		v1.GET("/recipes/:id/cost", middleware.RequireRole("manager", "admin"), recipesH.Cost)
		recipes := v1.Group("/recipes", middleware.RequireRole("manager", "admin"))
		{
			recipes.POST("", recipesH.Create)
			recipes.DELETE("/:id", recipesH.Deactivate)
		}

		// Users — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// startWorkers launches the async machinery: the BRPOP pool that handles
	// order notifications and emails, and the weekly consumption cron.
	startWorkers := func(ctx context.Context) {
		handlers := worker.Handlers{
			OrderNotify: worker.NewOrderNotifyWorker(orderRepo, dispatcher, rdb, cfg.PDFStoragePath),
			Email:       worker.NewEmailWorker(mailer),
		}
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
		worker.StartConsumptionCron(ctx, worker.ConsumptionCronConfig{
			Calculator: consumptionSvc,
			Weekday:    time.Weekday(cfg.ConsumptionCronWeekday),
			Hour:       cfg.ConsumptionCronHour,
		})
	}

	return r, startWorkers
}
