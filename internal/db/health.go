package db

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

func Ping(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("resolve sql handle: %w", err)
	}
	return PingSQL(ctx, sqlDB)
}

func PingSQL(ctx context.Context, sqlDB *sql.DB) error {
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
