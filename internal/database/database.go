package database

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Connections bundles the two handles the service uses: gorm for scenarios
// and sqlx for property records.
type Connections struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

// Connect opens both pools against the configured Postgres database.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*Connections, error) {
	url := cfg.GetDatabaseURL()

	sqlxDB, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlxDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.MaxLifetime)

	gormDB, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		sqlxDB.Close()
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		sqlxDB.Close()
		return nil, fmt.Errorf("failed to get gorm pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("Connected to database",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName))

	return &Connections{Gorm: gormDB, SQLX: sqlxDB}, nil
}

// Migrate applies the embedded goose migrations.
func (c *Connections) Migrate(log *zap.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(zap.NewStdLog(log.Named("goose")))

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(c.SQLX.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases both pools.
func (c *Connections) Close() error {
	var firstErr error
	if sqlDB, err := c.Gorm.DB(); err == nil {
		firstErr = sqlDB.Close()
	}
	if err := c.SQLX.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
