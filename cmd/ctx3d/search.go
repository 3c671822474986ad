package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ctx3d/internal/cellcrypto"
	"ctx3d/internal/config"
	"ctx3d/internal/retrieve"
)

func buildSearchFilters(cfg *config.Config, topK int, predicateExpr string) (retrieve.SearchFilters, error) {
	filters := retrieve.DefaultSearchFilters()
	filters.TopK = topK
	filters.SensitivityThreshold = cfg.SensitivityMax

	switch cfg.RetrievalPolicy {
	case "internal":
		filters.Policy = retrieve.Internal
		if cfg.IdentityFile != "" {
			content, err := os.ReadFile(cfg.IdentityFile)
			if err != nil {
				return filters, fmt.Errorf("read identity file %s: %w", cfg.IdentityFile, err)
			}
			dec, err := cellcrypto.NewIdentityDecryptor(string(content))
			if err != nil {
				return filters, fmt.Errorf("load identity: %w", err)
			}
			filters.Decryptor = dec
		}
	default:
		filters.Policy = retrieve.External
	}

	if predicateExpr != "" {
		pred, err := retrieve.ParseFilters(predicateExpr)
		if err != nil {
			return filters, fmt.Errorf("parse filter expression: %w", err)
		}
		filters.Predicate = pred
	}
	return filters, nil
}

func runSearch(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	collection := fs.String("collection", "default", "collection to search")
	topK := fs.Int("top-k", cfg.DefaultTopK, "number of hits to return")
	filterExpr := fs.String("filter", "", "filter predicate, e.g. \"type=TABLE,min_importance=0.5\"")
	hybrid := fs.Bool("hybrid", true, "fuse BM25 with cosine similarity")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("search: missing query text")
	}
	query := fs.Arg(0)

	backend, err := buildEmbedBackend(cfg, logger)
	if err != nil {
		return err
	}
	queryEmbedding, err := backend.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	filters, err := buildSearchFilters(cfg, *topK, *filterExpr)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store %s: %w", cfg.StorePath, err)
	}
	defer store.Close()

	var hits []retrieve.ScoredCell
	if *hybrid {
		hits, err = store.HybridSearch(ctx, *collection, query, queryEmbedding, filters)
	} else {
		hits, err = store.Search(ctx, *collection, queryEmbedding, filters)
	}
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	printHits(hits)
	logger.Info("search complete", zap.String("collection", *collection), zap.Int("hits", len(hits)))
	return nil
}

func printHits(hits []retrieve.ScoredCell) {
	for _, h := range hits {
		fmt.Printf("%.4f\t%s\t%s\t%s\n", h.Score, h.DocumentSource, h.CellType, h.Text)
	}
}
