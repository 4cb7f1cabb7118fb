package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boutiquehq/boutique/config"
	"github.com/boutiquehq/boutique/internal/app"
	"github.com/boutiquehq/boutique/internal/storeapi"
)

var (
	confFile = flag.String("c", "boutique.yml", "config file")
	initDb   = flag.Bool("initdb", false, "drop and recreate database tables")
	showVer  = flag.Bool("v", false, "show version")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("boutique", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "init failed:", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initDb {
		application.DropAll()
		if err := application.MigrateDB(); err != nil {
			zap.S().Fatalf("initdb failed: %v", err)
		}
		zap.S().Info("database initialized")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Web.Enabled {
		server := storeapi.NewServer(cfg, application.DB())
		g.Go(server.Start)
		g.Go(func() error {
			<-ctx.Done()
			return server.Shutdown()
		})
	} else {
		g.Go(func() error {
			<-ctx.Done()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.S().Errorf("shutdown: %v", err)
	}
}
