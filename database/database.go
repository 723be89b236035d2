package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "log/slog"

	"craftshare/config"
	"craftshare/internal/domain/media"
	"craftshare/internal/domain/posts"
	"craftshare/internal/domain/users"
	"craftshare/internal/repository/gormrepo"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	retry "github.com/sethvargo/go-retry"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sqlOpen = sql.Open

// Open connects to PostgreSQL through the traced pgx driver, waits for the
// server to answer and returns a gorm handle on the pool.
func Open(ctx context.Context, c config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	sqlDB, err := sqlOpen(driverName, c.URL)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}

	if err := ping(ctx, sqlDB, c.ConnectRetries); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return db, nil
}

// ping retries with fibonacci backoff so the API can start before the database.
func ping(ctx context.Context, db *sql.DB, retries uint64) error {
	b := retry.WithMaxRetries(retries, retry.NewFibonacci(500*time.Millisecond))
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			log.Warn("database not ready", "attempt", attempt, "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

// Migrate creates or updates every table and seeds the default harmful
// categories.
func Migrate(ctx context.Context, db *gorm.DB) error {
	// gen_random_uuid() for image ids
	if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&media.Image{},

		&users.User{},
		&users.Follow{},

		&posts.HarmfulToolCategory{},
		&posts.HarmfulMaterialCategory{},
		&posts.Post{},
		&posts.Tool{},
		&posts.Material{},
		&posts.Like{},
		&posts.Rating{},
		&posts.Comment{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if err := gormrepo.SeedCategories(ctx, db); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	log.Info("database migrated")
	return nil
}
