package router

import (
	"merch_store_backend/internal/handlers"
	"merch_store_backend/internal/middleware"
	"merch_store_backend/internal/services"
	"merch_store_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// guard builds the middleware chain for admin routes. With auth disabled the chain is empty.
type guard struct {
	enabled bool
	tokens  *utils.TokenIssuer
	checker middleware.PermissionChecker
}

func newGuard(enabled bool, tokens *utils.TokenIssuer, checker middleware.PermissionChecker) guard {
	return guard{enabled: enabled, tokens: tokens, checker: checker}
}

func (g guard) require(action string) []gin.HandlerFunc {
	if !g.enabled {
		return nil
	}
	return []gin.HandlerFunc{middleware.AuthMiddleware(g.tokens), middleware.RequirePermission(g.checker, action)}
}

// SetupAuthRoutes sets up the authentication routes. /me always needs a token.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, tokens *utils.TokenIssuer) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", middleware.AuthMiddleware(tokens), authHandler.GetCurrentUser)
	}
}

// SetupItemRoutes sets up the item routes.
func SetupItemRoutes(apiGroup *gin.RouterGroup, itemHandler *handlers.ItemHandler, g guard) {
	itemRoutes := apiGroup.Group("/items")
	itemRoutes.GET("", itemHandler.GetItems)
	itemRoutes.GET("/:id", itemHandler.GetItemByID)

	admin := itemRoutes.Group("")
	admin.Use(g.require(services.PermManageCatalog)...)
	{
		admin.POST("", itemHandler.CreateItem)
		admin.PUT("/:id", itemHandler.UpdateItem)
		admin.DELETE("/:id", itemHandler.DeleteItem)
	}
}

// SetupItemTypeRoutes sets up the item type routes.
func SetupItemTypeRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, g guard) {
	itemTypeRoutes := apiGroup.Group("/item-types")
	itemTypeRoutes.GET("", catalogHandler.GetItemTypes)
	itemTypeRoutes.GET("/:id", catalogHandler.GetItemTypeByID)
	itemTypeRoutes.GET("/:id/sizes", catalogHandler.GetSizesForItemType)

	admin := itemTypeRoutes.Group("")
	admin.Use(g.require(services.PermManageCatalog)...)
	{
		admin.POST("", catalogHandler.CreateItemType)
		admin.PUT("/:id", catalogHandler.UpdateItemType)
		admin.DELETE("/:id", catalogHandler.DeleteItemType)
	}
}

// SetupSizeRoutes sets up the size routes.
func SetupSizeRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, g guard) {
	sizeRoutes := apiGroup.Group("/sizes")
	sizeRoutes.GET("", catalogHandler.GetSizes)
	sizeRoutes.GET("/:id", catalogHandler.GetSizeByID)

	admin := sizeRoutes.Group("")
	admin.Use(g.require(services.PermManageCatalog)...)
	{
		admin.POST("", catalogHandler.CreateSize)
		admin.PUT("/:id", catalogHandler.UpdateSize)
		admin.DELETE("/:id", catalogHandler.DeleteSize)
	}
}

// SetupItemTypeSizeRoutes sets up the item type / size pairing routes.
func SetupItemTypeSizeRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, g guard) {
	pairRoutes := apiGroup.Group("/item-type-sizes")
	pairRoutes.GET("", catalogHandler.GetItemTypeSizes)

	admin := pairRoutes.Group("")
	admin.Use(g.require(services.PermManageCatalog)...)
	{
		admin.POST("", catalogHandler.AddSizeToItemType)
		admin.DELETE("/:itemTypeId/:sizeId", catalogHandler.RemoveSizeFromItemType)
	}
}

// SetupItemAvailabilityRoutes sets up the stock routes.
func SetupItemAvailabilityRoutes(apiGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler, g guard) {
	availabilityRoutes := apiGroup.Group("/item-availability")
	availabilityRoutes.GET("", inventoryHandler.GetAvailabilities)
	availabilityRoutes.GET("/:id", inventoryHandler.GetAvailabilityByID)
	availabilityRoutes.GET("/item/:itemId", inventoryHandler.GetAvailabilitiesByItemID)

	admin := availabilityRoutes.Group("")
	admin.Use(g.require(services.PermManageInventory)...)
	{
		admin.POST("", inventoryHandler.CreateAvailability)
		admin.PUT("", inventoryHandler.UpsertAvailability)
		admin.PUT("/:id", inventoryHandler.UpdateAvailability)
		admin.PATCH("/stock/:itemId/:sizeId", inventoryHandler.SetStock)
		admin.DELETE("/:id", inventoryHandler.DeleteAvailability)
	}
}

// SetupUserRoutes sets up the user routes.
func SetupUserRoutes(apiGroup *gin.RouterGroup, userHandler *handlers.UserHandler, g guard) {
	userRoutes := apiGroup.Group("/users")
	userRoutes.GET("", userHandler.GetUsers)
	userRoutes.GET("/:id", userHandler.GetUserByID)

	admin := userRoutes.Group("")
	admin.Use(g.require(services.PermManageUsers)...)
	{
		admin.POST("", userHandler.CreateUser)
		admin.PUT("/:id", userHandler.UpdateUser)
		admin.DELETE("/:id", userHandler.DeleteUser)
	}
}

// SetupRoleRoutes sets up the role routes.
func SetupRoleRoutes(apiGroup *gin.RouterGroup, roleHandler *handlers.RoleHandler, g guard) {
	roleRoutes := apiGroup.Group("/roles")
	roleRoutes.GET("", roleHandler.GetRoles)
	roleRoutes.GET("/:id", roleHandler.GetRoleByID)

	admin := roleRoutes.Group("")
	admin.Use(g.require(services.PermManageRoles)...)
	{
		admin.POST("", roleHandler.CreateRole)
		admin.PUT("/:id", roleHandler.UpdateRole)
		admin.DELETE("/:id", roleHandler.DeleteRole)
	}
}

// SetupPermissionRoutes sets up the permission routes.
func SetupPermissionRoutes(apiGroup *gin.RouterGroup, roleHandler *handlers.RoleHandler, g guard) {
	permissionRoutes := apiGroup.Group("/permissions")
	permissionRoutes.GET("", roleHandler.GetPermissions)
	permissionRoutes.GET("/:id", roleHandler.GetPermissionByID)

	admin := permissionRoutes.Group("")
	admin.Use(g.require(services.PermManageRoles)...)
	{
		admin.POST("", roleHandler.CreatePermission)
		admin.PUT("/:id", roleHandler.UpdatePermission)
		admin.DELETE("/:id", roleHandler.DeletePermission)
	}
}

// SetupRolePermissionRoutes sets up the role permission grant routes.
func SetupRolePermissionRoutes(apiGroup *gin.RouterGroup, roleHandler *handlers.RoleHandler, g guard) {
	grantRoutes := apiGroup.Group("/role-permissions")
	grantRoutes.GET("", roleHandler.GetRolePermissions)

	admin := grantRoutes.Group("")
	admin.Use(g.require(services.PermManageRoles)...)
	{
		admin.POST("", roleHandler.AddPermissionToRole)
		admin.DELETE("/:roleId/:permissionId", roleHandler.RemovePermissionFromRole)
	}
}

// SetupOrderRoutes sets up the order routes. Placing an order stays public.
func SetupOrderRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler, g guard) {
	orderRoutes := apiGroup.Group("/orders")
	orderRoutes.POST("", orderHandler.CreateOrder)

	admin := orderRoutes.Group("")
	admin.Use(g.require(services.PermManageOrders)...)
	{
		admin.GET("", orderHandler.GetOrders)
		admin.GET("/user/:userId", orderHandler.GetOrdersByUserID)
		admin.GET("/:id", orderHandler.GetOrderByID)
		admin.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
		admin.DELETE("/:id", orderHandler.DeleteOrder)
	}
}

// SetupLocationRoutes sets up the location routes.
func SetupLocationRoutes(apiGroup *gin.RouterGroup, locationHandler *handlers.LocationHandler, g guard) {
	locationRoutes := apiGroup.Group("/locations")
	locationRoutes.GET("", locationHandler.GetLocations)
	locationRoutes.GET("/:id", locationHandler.GetLocationByID)

	admin := locationRoutes.Group("")
	admin.Use(g.require(services.PermManageLocations)...)
	{
		admin.POST("", locationHandler.CreateLocation)
		admin.PUT("/:id", locationHandler.UpdateLocation)
		admin.DELETE("/:id", locationHandler.DeleteLocation)
	}
}
