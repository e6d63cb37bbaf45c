package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/OdenLounge/odenLounge-backend/internal/assets"
	"github.com/OdenLounge/odenLounge-backend/internal/config"
	"github.com/OdenLounge/odenLounge-backend/internal/events"
	"github.com/OdenLounge/odenLounge-backend/internal/httpapi"
	"github.com/OdenLounge/odenLounge-backend/internal/notify"
	"github.com/OdenLounge/odenLounge-backend/internal/service"
	"github.com/OdenLounge/odenLounge-backend/internal/storage"
)

const notifyWorkers = 3

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := storage.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	store, err := assets.NewDiskStore(cfg.MediaDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal("failed to initialize media store", zap.Error(err))
	}
	pipeline := assets.NewPipeline(store, log)

	var mailer notify.Mailer
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		mailer = &notify.LogMailer{Log: log}
	}
	dispatcher := notify.NewDispatcher(mailer, notifyWorkers, log)

	hub := events.NewHub(log)
	go hub.Run()

	gallery := service.NewGallery(db, pipeline, hub, log)
	menu := service.NewMenu(db, pipeline, log)
	reservations := service.NewReservations(db, dispatcher, hub, cfg.AdminEmail, log)

	server := httpapi.NewServer(gallery, menu, reservations, dispatcher, hub, cfg.AdminEmail, log)
	router := server.Router()
	router.Static("/media", cfg.MediaDir)

	// Flush queued notifications on shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("shutting down")
		dispatcher.Shutdown()
		os.Exit(0)
	}()

	log.Info("server starting", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
