package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"merch_store_backend/internal/cache"
	"merch_store_backend/internal/handlers"
	"merch_store_backend/internal/middleware"
	"merch_store_backend/internal/repositories"
	"merch_store_backend/internal/services"
	"merch_store_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries the runtime settings the routes depend on.
type Options struct {
	Cache       cache.Cache
	CacheTTL    time.Duration
	Tokens      *utils.TokenIssuer
	AuthEnabled bool
}

// Services groups every service the HTTP layer calls.
type Services struct {
	Item      services.ItemService
	Catalog   services.CatalogService
	Inventory services.InventoryService
	User      services.UserService
	Role      services.RoleService
	Order     services.OrderService
	Location  services.LocationService
	Auth      services.AuthService
}

// NewServices builds the repositories and services over db.
func NewServices(db *sql.DB, opts Options) Services {
	// Initialize Repositories
	itemRepo := repositories.NewItemRepository(db)
	itemTypeRepo := repositories.NewItemTypeRepository(db)
	sizeRepo := repositories.NewSizeRepository(db)
	availabilityRepo := repositories.NewItemAvailabilityRepository(db)
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	permissionRepo := repositories.NewPermissionRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	locationRepo := repositories.NewLocationRepository(db)

	// Initialize Services
	roleService := services.NewRoleService(roleRepo, permissionRepo, db)
	return Services{
		Item:      services.NewItemService(itemRepo, itemTypeRepo, availabilityRepo, opts.Cache, opts.CacheTTL, db),
		Catalog:   services.NewCatalogService(itemTypeRepo, sizeRepo, db),
		Inventory: services.NewInventoryService(availabilityRepo, itemRepo, sizeRepo, db),
		User:      services.NewUserService(userRepo, roleRepo, db),
		Role:      roleService,
		Order:     services.NewOrderService(orderRepo, itemRepo, availabilityRepo, userRepo, db),
		Location:  services.NewLocationService(locationRepo, db),
		Auth:      services.NewAuthService(userRepo, roleService, opts.Tokens),
	}
}

// NewEngine creates a gin engine with request id, logging, recovery and CORS.
func NewEngine(allowedOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.LogError(fmt.Errorf("panic: %v", recovered), "Recovered from panic")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Something went wrong on the server", nil))
	}))

	config := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}
	engine.Use(cors.New(config))

	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, opts Options) {
	Register(engine, NewServices(db, opts), opts)
}

// Register mounts every route group under /api.
func Register(engine *gin.Engine, svcs Services, opts Options) {
	// Initialize Handlers
	itemHandler := handlers.NewItemHandler(svcs.Item)
	catalogHandler := handlers.NewCatalogHandler(svcs.Catalog)
	inventoryHandler := handlers.NewInventoryHandler(svcs.Inventory)
	userHandler := handlers.NewUserHandler(svcs.User)
	roleHandler := handlers.NewRoleHandler(svcs.Role)
	orderHandler := handlers.NewOrderHandler(svcs.Order)
	locationHandler := handlers.NewLocationHandler(svcs.Location)
	authHandler := handlers.NewAuthHandler(svcs.Auth)

	g := newGuard(opts.AuthEnabled, opts.Tokens, svcs.Auth)

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API Running"})
	})
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := engine.Group("/api")
	SetupAuthRoutes(api, authHandler, opts.Tokens)
	SetupItemRoutes(api, itemHandler, g)
	SetupItemTypeRoutes(api, catalogHandler, g)
	SetupSizeRoutes(api, catalogHandler, g)
	SetupItemTypeSizeRoutes(api, catalogHandler, g)
	SetupItemAvailabilityRoutes(api, inventoryHandler, g)
	SetupUserRoutes(api, userHandler, g)
	SetupRoleRoutes(api, roleHandler, g)
	SetupPermissionRoutes(api, roleHandler, g)
	SetupRolePermissionRoutes(api, roleHandler, g)
	SetupOrderRoutes(api, orderHandler, g)
	SetupLocationRoutes(api, locationHandler, g)

	engine.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Route not found", nil))
	})
}
