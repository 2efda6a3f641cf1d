package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/internal/config"
	"storefront-backend/internal/docstore"
	"storefront-backend/internal/events"
	"storefront-backend/internal/httpserver"
	"storefront-backend/internal/mailer"
	"storefront-backend/internal/model"
	accountsvc "storefront-backend/internal/service/account"
	authsvc "storefront-backend/internal/service/auth"
	catalogsvc "storefront-backend/internal/service/catalog"
	customersvc "storefront-backend/internal/service/customer"
	ordersvc "storefront-backend/internal/service/order"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("connect store: %v", err)
	}
	defer store.Close()

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, logger)
	} else {
		mail = mailer.Discard{Logger: logger}
	}

	dispatch := events.NewDispatcher(logger, 30*time.Second)
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		defer kafkaPub.Close()
		publisher = kafkaPub
	}

	users := model.Users(store)
	orders := model.Orders(store)
	products := model.Products(store)
	customers := model.Customers(store)

	customerService := customersvc.New(customers, logger)
	authService := authsvc.New(users, mail, dispatch, cfg.JWTSecret, cfg.OTPTTL, logger)
	accountService := accountsvc.New(users, authsvc.PlaceholderPassword, logger)
	orderService := ordersvc.New(orders, customerService, mail, dispatch, publisher, logger)
	catalogService := catalogsvc.New(products, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, store, httpserver.Deps{
		AuthSvc:     authService,
		AccountSvc:  accountService,
		OrderSvc:    orderService,
		CustomerSvc: customerService,
		CatalogSvc:  catalogService,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (store=%s)", cfg.HTTPAddr, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	dispatch.Wait()
}

func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case "postgres":
		return docstore.ConnectPostgres(ctx, cfg.DBConnString, logger)
	case "mongo":
		return docstore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	case "memory":
		logger.Printf("using in-memory store, data will not survive restarts")
		return docstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
