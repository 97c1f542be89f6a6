package database

import (
	"database/sql"
	"fmt"
	"time"

	"merch_store_backend/pkg/utils"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Schema rows below only describe tables for AutoMigrate.
// Reads and writes go through the repositories package.

type itemTypeRow struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (itemTypeRow) TableName() string { return "item_types" }

type sizeRow struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sizeRow) TableName() string { return "sizes" }

type itemTypeSizeRow struct {
	ItemTypeID int64       `gorm:"primaryKey;autoIncrement:false"`
	SizeID     int64       `gorm:"primaryKey;autoIncrement:false"`
	ItemType   itemTypeRow `gorm:"foreignKey:ItemTypeID;constraint:OnDelete:CASCADE"`
	Size       sizeRow     `gorm:"foreignKey:SizeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

func (itemTypeSizeRow) TableName() string { return "item_type_sizes" }

type itemRow struct {
	ID          int64           `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"not null;default:''"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;check:price > 0"`
	ItemTypeID  int64           `gorm:"not null;index"`
	ItemType    itemTypeRow     `gorm:"foreignKey:ItemTypeID;constraint:OnDelete:RESTRICT"`
	ImageURL    string          `gorm:"column:image_url;not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (itemRow) TableName() string { return "items" }

type itemAvailabilityRow struct {
	ID              int64   `gorm:"primaryKey"`
	ItemID          int64   `gorm:"not null;uniqueIndex:idx_item_availability_item_size"`
	SizeID          int64   `gorm:"not null;uniqueIndex:idx_item_availability_item_size"`
	Item            itemRow `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Size            sizeRow `gorm:"foreignKey:SizeID;constraint:OnDelete:CASCADE"`
	QuantityInStock int     `gorm:"not null;default:0;check:quantity_in_stock >= 0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (itemAvailabilityRow) TableName() string { return "item_availability" }

type roleRow struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (roleRow) TableName() string { return "roles" }

type permissionRow struct {
	ID          int64  `gorm:"primaryKey"`
	Action      string `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (permissionRow) TableName() string { return "permissions" }

type rolePermissionRow struct {
	RoleID       int64         `gorm:"primaryKey;autoIncrement:false"`
	PermissionID int64         `gorm:"primaryKey;autoIncrement:false"`
	Role         roleRow       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission   permissionRow `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}

func (rolePermissionRow) TableName() string { return "role_permissions" }

type userRow struct {
	ID           int64   `gorm:"primaryKey"`
	Name         string  `gorm:"not null"`
	Email        string  `gorm:"not null;uniqueIndex"`
	RoleID       int64   `gorm:"not null;index"`
	Role         roleRow `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type orderRow struct {
	ID          int64           `gorm:"primaryKey"`
	UserID      int64           `gorm:"not null;index"`
	User        userRow         `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	OrderDate   time.Time       `gorm:"not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status      string          `gorm:"not null;default:'Completed'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (orderRow) TableName() string { return "orders" }

// orderLineRow has no foreign keys to items or sizes, so lines outlive catalog deletions.
type orderLineRow struct {
	ID                 int64           `gorm:"primaryKey"`
	OrderID            int64           `gorm:"not null;index"`
	Order              orderRow        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ItemID             int64           `gorm:"not null"`
	SizeID             int64           `gorm:"not null"`
	Quantity           int             `gorm:"not null;check:quantity > 0"`
	PriceAtTimeOfOrder decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

func (orderLineRow) TableName() string { return "order_lines" }

type locationRow struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Address   string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (locationRow) TableName() string { return "locations" }

// schemaModels lists every table in dependency order.
func schemaModels() []interface{} {
	return []interface{}{
		&itemTypeRow{},
		&sizeRow{},
		&itemTypeSizeRow{},
		&itemRow{},
		&itemAvailabilityRow{},
		&roleRow{},
		&permissionRow{},
		&rolePermissionRow{},
		&userRow{},
		&orderRow{},
		&orderLineRow{},
		&locationRow{},
	}
}

// Migrate creates or updates the schema on the existing connection pool.
// Existing data is never dropped.
func Migrate(db *sql.DB) error {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("error opening gorm session: %w", err)
	}

	utils.LogInfo("Running database migrations")
	if err := gdb.AutoMigrate(schemaModels()...); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	utils.LogInfo("Database migrations completed", map[string]interface{}{"tables": len(schemaModels())})
	return nil
}
