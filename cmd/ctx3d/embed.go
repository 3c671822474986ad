package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/ctxerr"
	"ctx3d/internal/embed"
)

func buildEmbedBackend(cfg *config.Config, logger *zap.Logger) (embed.Backend, error) {
	var backend embed.Backend
	switch cfg.EmbeddingKind {
	case "remote_a", "remote_b", "remote":
		if cfg.EmbeddingHost == "" {
			return nil, ctxerr.Newf(ctxerr.KindConfiguration, "embedding kind %q requires EMBEDDING_HOST", cfg.EmbeddingKind)
		}
		rc := embed.RemoteConfig{
			Host:       cfg.EmbeddingHost,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBaseDelay,
			Logger:     logger,
		}
		backend = embed.NewRemoteEmbedder(rc)
	default:
		backend = embed.NewHashBackend(embed.NewHashEmbedder(embed.DefaultHashConfig()))
	}

	if cfg.EmbeddingCacheCap > 0 {
		cached, err := embed.NewCachedBackend(backend, cfg.EmbeddingCacheCap)
		if err != nil {
			return nil, fmt.Errorf("build embedding cache: %w", err)
		}
		return cached, nil
	}
	return backend, nil
}

func runEmbed(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("embed", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("embed: missing input path")
	}
	input := fs.Arg(0)

	doc, err := loadDocument(input)
	if err != nil {
		return err
	}
	chunker, err := buildChunker(cfg)
	if err != nil {
		return err
	}
	backend, err := buildEmbedBackend(cfg, logger)
	if err != nil {
		return err
	}

	docID := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	records := chunker.ChunkDocument(doc, docID)

	for _, r := range records {
		vec, err := backend.Embed(ctx, r.Text)
		if err != nil {
			return fmt.Errorf("embed chunk %s: %w", r.ChunkID, err)
		}
		fmt.Printf("%s\tdim=%d\n", r.ChunkID, len(vec))
	}
	logger.Info("embedded document", zap.String("input", input), zap.Int("chunks", len(records)))
	return nil
}
