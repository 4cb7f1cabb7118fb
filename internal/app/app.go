package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/boutiquehq/boutique/config"
	"github.com/boutiquehq/boutique/internal/console"
	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/internal/notify"
	"github.com/boutiquehq/boutique/internal/store"
	"github.com/boutiquehq/boutique/pkg/common"
	"github.com/boutiquehq/boutique/pkg/metrics"
)

// Application wires the storefront together: config, the authoritative
// Postgres database (serving mode), the local fallback store, the unified
// data access layer, the admin console and the background jobs.
type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	local     *store.LocalStore
	dataStore *store.Store
	admin     *console.Console
	bus       EventBus.Bus
	sched     *cron.Cron
}

// Ensure Application implements all provider interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Store() *store.Store {
	return a.dataStore
}

func (a *Application) Console() *console.Console {
	return a.admin
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := common.SetupIDGenerator(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return err
	}

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	local, err := store.OpenLocalStore(filepath.Join(cfg.System.Workdir, "boutique.db"))
	if err != nil {
		return err
	}
	a.local = local

	a.bus = EventBus.New()
	remote := store.NewRemoteStore(cfg.Remote)
	a.dataStore = store.New(local, remote, a.bus)
	a.admin = console.New(a.dataStore)

	notifier := notify.NewNotifier(cfg.Smtp)
	if err := notifier.Subscribe(a.bus); err != nil {
		zap.S().Warnf("order notifier subscribe failed: %v", err)
	}

	// serving mode: open the authoritative database behind the storefront API
	if cfg.Web.Enabled {
		a.gormDB = getDatabase(cfg.Database)
		zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

		if err := a.MigrateDB(); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}

		go func() {
			time.Sleep(3 * time.Second)
			a.checkDemoProducts()
		}()
	}

	a.checkShopSettings()
	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)

	logLevel := gormlogger.Silent
	if cfg.Debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		zap.S().Panicf("database connect error: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}

func (a *Application) MigrateDB() error {
	return a.gormDB.Migrator().AutoMigrate(domain.Tables...)
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

// StartBackgroundJobs starts the cron runner and stops it when ctx ends.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.sched.Start()
	go func() {
		<-ctx.Done()
		a.sched.Stop()
	}()
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.local != nil {
		_ = a.local.Close()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
