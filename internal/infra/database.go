package infra

import (
	"fmt"

	"kitchenops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx with a silent SQL
// logger and a sized connection pool. Schema management is a separate step,
// see RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Location{},
		&model.Station{},
		&model.Product{},
		&model.StationProduct{},
		&model.InventoryCount{},
		&model.ProductionLog{},
		&model.WeeklyConsumption{},
		&model.OrderRequest{},
		&model.OrderItem{},
		&model.Recipe{},
		&model.RecipeIngredient{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not cover.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// conversion_factor must be strictly positive (validated at the API
		// boundary too; the CHECK guards direct SQL writes)
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_conversion_factor') THEN
		    ALTER TABLE products ADD CONSTRAINT chk_products_conversion_factor CHECK (conversion_factor > 0);
		  END IF;
		END $$`,
		// inventory counts may not go negative
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventory_counts_quantity') THEN
		    ALTER TABLE inventory_counts ADD CONSTRAINT chk_inventory_counts_quantity CHECK (quantity >= 0);
		  END IF;
		END $$`,
		// partial index for the order list view (open orders per location)
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_order_requests_open') THEN
		    CREATE INDEX idx_order_requests_open
		        ON order_requests (location_id, request_date)
		        WHERE status NOT IN ('RECEIVED', 'CANCELLED');
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
