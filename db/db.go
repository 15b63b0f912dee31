package db

import (
	"fmt"

	"Gin_postgres_redis_asset_tool/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN builds a libpq connection string from its parts.
func DSN(host, user, password, name, port string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, name, port,
	)
}

func ConnectDB(dsn string, log *zap.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if log != nil {
		log.Info("database connected")
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.LoanRequest{},
		&models.DamageReport{},
		&models.MaintenanceRecord{},
	); err != nil {
		return err
	}

	// 冲突检测只扫描 pending/approved 的借用
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_window
	  ON %s (asset_id, borrow_date, return_date)
	  WHERE status IN ('pending_approval', 'approved');
	`, models.LoanRequestTable, models.LoanRequestTable)).Error; err != nil {
		return err
	}

	// 未解决的损坏报告按资产查
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_by_asset
	  ON %s (asset_id)
	  WHERE is_resolved = FALSE;
	`, models.DamageReportTable, models.DamageReportTable)).Error; err != nil {
		return err
	}

	return nil
}
