package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/pathutil"
	"ctx3d/internal/retrieve"
)

func runIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	collection := fs.String("collection", "default", "collection name to index into")
	budget := fs.Int("budget", cfg.CellBudget, "cell budget, 0 = unbounded")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("index: missing input path")
	}
	input := fs.Arg(0)

	encCfg, err := buildEncodeConfig(cfg, *budget)
	if err != nil {
		return err
	}
	doc, _, err := encodeDocument(input, encCfg)
	if err != nil {
		return err
	}

	backend, err := buildEmbedBackend(cfg, logger)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store %s: %w", cfg.StorePath, err)
	}
	defer store.Close()

	title := pathutil.SanitizeFilename(filepath.Base(input))
	if title == "" {
		title = pathutil.NewID()
	}
	record, inserted, err := store.IndexDocument(ctx, *collection, retrieve.DocumentInsert{
		SourcePath: input,
		Title:      title,
	}, doc, backend)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	logger.Info("indexed document",
		zap.String("collection", *collection),
		zap.Int64("document_id", record.ID),
		zap.Int("cells_indexed", inserted),
	)
	fmt.Printf("indexed %s into %q as document %d (%d cells)\n", input, *collection, record.ID, inserted)
	return nil
}
