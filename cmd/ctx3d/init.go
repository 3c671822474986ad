package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/retrieve"
)

func openStore(cfg *config.Config) (*retrieve.Store, error) {
	return retrieve.Open(cfg.StorePath)
}

func runInit(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("init: missing collection name")
	}
	collection := fs.Arg(0)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store %s: %w", cfg.StorePath, err)
	}
	defer store.Close()

	id, err := store.EnsureCollection(ctx, collection)
	if err != nil {
		return fmt.Errorf("ensure collection %s: %w", collection, err)
	}

	logger.Info("collection ready", zap.String("store", cfg.StorePath), zap.String("collection", collection), zap.Int64("collection_id", id))
	fmt.Printf("collection %q ready in %s (id=%d)\n", collection, cfg.StorePath, id)
	return nil
}
