package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"merch_store_backend/internal/cache"
	"merch_store_backend/internal/config"
	"merch_store_backend/internal/database"
	"merch_store_backend/internal/models"
	"merch_store_backend/internal/router"
	"merch_store_backend/internal/services"
	"merch_store_backend/pkg/utils"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// seedItem is one sample catalog entry and the stock given to each of its sizes.
type seedItem struct {
	Name        string
	Description string
	Price       string
	ItemType    string
	Stock       int
}

var (
	seedSizes     = []string{"S", "M", "L", "XL", "One Size"}
	seedItemTypes = map[string][]string{
		"T-Shirt": {"S", "M", "L", "XL"},
		"Hoodie":  {"S", "M", "L", "XL"},
		"Mug":     {"One Size"},
		"Sticker": {"One Size"},
	}
	seedItems = []seedItem{
		{Name: "Logo T-Shirt", Description: "Cotton tee with the club logo", Price: "25.50", ItemType: "T-Shirt", Stock: 20},
		{Name: "Zip Hoodie", Description: "Heavyweight zip hoodie", Price: "54.00", ItemType: "Hoodie", Stock: 10},
		{Name: "Enamel Mug", Description: "Camping mug, 350ml", Price: "12.00", ItemType: "Mug", Stock: 40},
		{Name: "Sticker Pack", Description: "Five vinyl stickers", Price: "4.50", ItemType: "Sticker", Stock: 100},
	}
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	svcs := router.NewServices(db, router.Options{
		Cache:    cache.NoopCache{},
		CacheTTL: cfg.CacheTTL,
		Tokens:   utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
	})

	adminRoleID, err := seedRoles(ctx, svcs.Role)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed roles")
	}
	if err := seedCatalog(ctx, svcs); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed catalog")
	}
	if err := seedAdmin(ctx, svcs.User, adminRoleID); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin user")
	}

	utils.LogInfo("Seed completed")
}

// seedRoles creates the Admin and Employee roles and grants Admin every permission.
func seedRoles(ctx context.Context, roles services.RoleService) (int64, error) {
	existingRoles, err := roles.GetRoles(ctx)
	if err != nil {
		return 0, err
	}
	roleIDs := make(map[string]int64, len(existingRoles))
	for _, r := range existingRoles {
		roleIDs[r.Name] = r.ID
	}
	for _, name := range []string{"Admin", "Employee"} {
		if _, ok := roleIDs[name]; ok {
			continue
		}
		role, err := roles.CreateRole(ctx, services.NameRequest{Name: name})
		if err != nil {
			return 0, err
		}
		roleIDs[name] = role.ID
		utils.LogInfo("Role created", map[string]interface{}{"name": name})
	}

	existingPerms, err := roles.GetPermissions(ctx)
	if err != nil {
		return 0, err
	}
	permIDs := make(map[string]int64, len(existingPerms))
	for _, p := range existingPerms {
		permIDs[p.Action] = p.ID
	}
	for _, action := range services.AllPermissions {
		if _, ok := permIDs[action]; !ok {
			p, err := roles.CreatePermission(ctx, services.CreatePermissionRequest{
				Action:      action,
				Description: "Allows " + strings.ReplaceAll(action, "_", " "),
			})
			if err != nil {
				return 0, err
			}
			permIDs[action] = p.ID
		}
		_, err := roles.AddPermissionToRole(ctx, services.RolePermissionRequest{RoleID: roleIDs["Admin"], PermissionID: permIDs[action]})
		if err != nil && !errors.Is(err, services.ErrConflict) {
			return 0, err
		}
	}
	return roleIDs["Admin"], nil
}

func seedCatalog(ctx context.Context, svcs router.Services) error {
	existingSizes, err := svcs.Catalog.GetSizes(ctx)
	if err != nil {
		return err
	}
	sizeIDs := make(map[string]int64)
	for _, s := range existingSizes {
		sizeIDs[s.Name] = s.ID
	}
	for _, name := range seedSizes {
		if _, ok := sizeIDs[name]; ok {
			continue
		}
		s, err := svcs.Catalog.CreateSize(ctx, services.NameRequest{Name: name})
		if err != nil {
			return err
		}
		sizeIDs[name] = s.ID
	}

	existingTypes, err := svcs.Catalog.GetItemTypes(ctx)
	if err != nil {
		return err
	}
	typeIDs := make(map[string]int64)
	for _, t := range existingTypes {
		typeIDs[t.Name] = t.ID
	}
	for name, sizes := range seedItemTypes {
		if _, ok := typeIDs[name]; !ok {
			t, err := svcs.Catalog.CreateItemType(ctx, services.NameRequest{Name: name})
			if err != nil {
				return err
			}
			typeIDs[name] = t.ID
		}
		for _, size := range sizes {
			_, err := svcs.Catalog.AddSizeToItemType(ctx, services.ItemTypeSizeRequest{ItemTypeID: typeIDs[name], SizeID: sizeIDs[size]})
			if err != nil && !errors.Is(err, services.ErrConflict) {
				return err
			}
		}
	}

	existingItems, err := svcs.Item.GetItems(ctx, models.ItemFilters{})
	if err != nil {
		return err
	}
	itemIDs := make(map[string]int64)
	for _, it := range existingItems {
		itemIDs[it.Name] = it.ID
	}
	for _, si := range seedItems {
		if _, ok := itemIDs[si.Name]; ok {
			continue
		}
		price := decimal.RequireFromString(si.Price)
		item, err := svcs.Item.CreateItem(ctx, services.CreateItemRequest{
			Name:        si.Name,
			Description: si.Description,
			Price:       &price,
			ItemTypeID:  typeIDs[si.ItemType],
		})
		if err != nil {
			return err
		}
		for _, size := range seedItemTypes[si.ItemType] {
			stock := si.Stock
			if _, err := svcs.Inventory.UpsertAvailability(ctx, services.CreateAvailabilityRequest{
				ItemID:          item.ID,
				SizeID:          sizeIDs[size],
				QuantityInStock: &stock,
			}); err != nil {
				return err
			}
		}
		utils.LogInfo("Item seeded", map[string]interface{}{"name": si.Name, "item_id": item.ID})
	}
	return nil
}

// seedAdmin creates admin@merch.local unless it already exists.
func seedAdmin(ctx context.Context, users services.UserService, adminRoleID int64) error {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		utils.LogWarn("SEED_ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@merch.local"
	}

	_, err := users.CreateUser(ctx, services.CreateUserRequest{
		Name:     "Administrator",
		Email:    email,
		RoleID:   adminRoleID,
		Password: &password,
	})
	if errors.Is(err, services.ErrConflict) {
		utils.LogInfo("Admin user already exists", map[string]interface{}{"email": email})
		return nil
	}
	if err != nil {
		return err
	}
	utils.LogInfo("Admin user created", map[string]interface{}{"email": email})
	return nil
}
