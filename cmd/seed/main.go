package main

import (
	"context"
	"log"
	"os"

	"storefront-backend/internal/config"
	"storefront-backend/internal/docstore"
	"storefront-backend/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	var store docstore.Store
	var err error
	switch cfg.StoreBackend {
	case "mongo":
		store, err = docstore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	default:
		store, err = docstore.ConnectPostgres(ctx, cfg.DBConnString, logger)
	}
	if err != nil {
		logger.Fatalf("connect store: %v", err)
	}
	defer store.Close()

	if err := seed.Apply(ctx, store); err != nil {
		logger.Fatalf("apply seed: %v", err)
	}

	logger.Println("seed applied")
}
