package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/cache"
	"github.com/tharun06x/team-chanchal/internal/config"
	"github.com/tharun06x/team-chanchal/internal/db"
	"github.com/tharun06x/team-chanchal/internal/logging"
	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/repository"
	"github.com/tharun06x/team-chanchal/internal/scheduler"
	"github.com/tharun06x/team-chanchal/internal/server"
	"github.com/tharun06x/team-chanchal/internal/storage"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load error")
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect error")
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Listing{},
		&model.ListingImage{},
		&model.Conversation{},
		&model.Message{},
	); err != nil {
		log.WithError(err).Fatal("auto migrate error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis and blob storage are optional; the server degrades without them.
	var c *cache.Cache
	if cfg.RedisURL != "" {
		c, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, running without listing cache")
			c = nil
		} else {
			defer c.Close()
		}
	}

	var uploader storage.Uploader
	if cfg.StorageBucket != "" {
		uploader, err = storage.NewGCSUploader(ctx, cfg.StorageBucket, cfg.StorageCredsFile)
		if err != nil {
			log.WithError(err).Warn("blob storage unavailable, image uploads disabled")
			uploader = nil
		} else {
			defer uploader.Close()
		}
	}

	sweeper := scheduler.NewExpirySweeper(repository.NewListingRepository(conn), c, cfg.ExpirySweepInterval)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	srv := server.New(conn, c, uploader, cfg)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("starting server")
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		log.WithError(err).Fatal("server stopped")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown error")
		}
	}
}
