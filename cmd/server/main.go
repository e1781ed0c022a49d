package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/sweetshop/internal/cache"
	"github.com/Skotchmaster/sweetshop/internal/config"
	"github.com/Skotchmaster/sweetshop/internal/es"
	"github.com/Skotchmaster/sweetshop/internal/handlers"
	"github.com/Skotchmaster/sweetshop/internal/logging"
	mwauth "github.com/Skotchmaster/sweetshop/internal/middleware/auth"
	"github.com/Skotchmaster/sweetshop/internal/mykafka"
	"github.com/Skotchmaster/sweetshop/internal/service/orders"
	"github.com/Skotchmaster/sweetshop/internal/service/reviews"
	httpserver "github.com/Skotchmaster/sweetshop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
	}

	productCache := cache.NewProductCache(configuration.REDIS_ADDR)

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("es init error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
	}

	orderSvc := &orders.Service{DB: db}
	reviewSvc := &reviews.Service{DB: db}
	gate := &mwauth.Gate{DB: db, JWTSecret: jwtSecret, AdminEmails: configuration.ADMIN_EMAILS}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Gate:            gate,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, Producer: prod},
		UserHandler:     &handlers.UserHandler{DB: db},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, Cache: productCache},
		OrderHandler:    &handlers.OrderHandler{Svc: orderSvc, Producer: prod, Cache: productCache},
		ReviewHandler:   &handlers.ReviewHandler{DB: db, Svc: reviewSvc, Producer: prod, Cache: productCache},
		WishlistHandler: &handlers.WishlistHandler{DB: db},
		AdminHandler:    &handlers.AdminHandler{DB: db},
		SearchHandler:   searchHandler,
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
	if err := productCache.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	log.Println("shutdown complete")
}
