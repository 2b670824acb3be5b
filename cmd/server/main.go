package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/localmarket/hub/internal/config"
	"github.com/localmarket/hub/internal/es"
	"github.com/localmarket/hub/internal/handlers"
	"github.com/localmarket/hub/internal/logging"
	"github.com/localmarket/hub/internal/mailer"
	"github.com/localmarket/hub/internal/mykafka"
	"github.com/localmarket/hub/internal/seed"
	httpserver "github.com/localmarket/hub/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	seeded, err := seed.Load(db, configuration.SEED_PATH, configuration.PLAIN_TEXT_PASSWORDS)
	if err != nil {
		log.Fatalf("seed load error: %v", err)
	}
	if seeded > 0 {
		logger.Info("seed dataset loaded", "products", seeded)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	}

	var searchHandler handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = handlers.SearchHandler{ES: esClient, Index: "products"}
	}

	var mail mailer.EmailService
	if configuration.SMTP_HOST != "" {
		mail = mailer.New(configuration.SMTP_HOST, configuration.SMTP_PORT, configuration.SMTP_FROM)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())

	deps := httpserver.Deps{
		DB: db,
		AdminHandler: &handlers.AdminHandler{
			DB:             db,
			Mailer:         mail,
			Producer:       prod,
			ApprovalBCC:    configuration.APPROVAL_BCC,
			PlainPasswords: configuration.PLAIN_TEXT_PASSWORDS,
		},
		RetailerHandler: &handlers.RetailerHandler{
			DB:             db,
			Producer:       prod,
			PlainPasswords: configuration.PLAIN_TEXT_PASSWORDS,
		},
		CustomerHandler: &handlers.CustomerHandler{
			DB:             db,
			Producer:       prod,
			PlainPasswords: configuration.PLAIN_TEXT_PASSWORDS,
		},
		SearchHandler: &searchHandler,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
