package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/boutiquehq/boutique/config"
	"github.com/boutiquehq/boutique/internal/console"
	"github.com/boutiquehq/boutique/internal/store"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the unified data access layer
type StoreProvider interface {
	Store() *store.Store
	Console() *console.Console
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB() error
	DropAll()
	StartBackgroundJobs(ctx context.Context)
	Release()
}
