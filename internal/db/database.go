package database

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KristinSchanks/healthcare-qms/internal/config"
	"github.com/KristinSchanks/healthcare-qms/internal/models"
)

type Client struct {
	DB *gorm.DB
}

// New connects to the database selected by database.driver.
func New(cfg *config.Config) (*Client, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	client, err := Open(dialector, gormLogLevel(cfg.Log.Level))
	if err != nil {
		return nil, err
	}

	log.WithField("driver", cfg.Database.Driver).Info("✅ Database Connected")
	return client, nil
}

// Open wraps an already chosen dialector. Timestamps are stored in UTC.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*Client, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Connection Pool Settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if dialector.Name() == "sqlite" {
		// SQLite allows one writer; a single connection also keeps :memory: databases intact.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Client{DB: db}, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, portOr(cfg.Port, "5432"))
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, portOr(cfg.Port, "3306"), cfg.Name)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func portOr(port, def string) string {
	if port == "" {
		return def
	}
	return port
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Warn
	}
}

// AutoMigrate creates the feedback, record and sessions tables when absent
func (c *Client) AutoMigrate() error {
	log.Info("Running Database Migrations...")
	err := c.DB.AutoMigrate(
		&models.Feedback{},
		&models.Record{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("✅ Migrations Complete")
	return nil
}

// Ping checks that the database is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
