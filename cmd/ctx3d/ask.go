package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/retrieve"
)

// runAsk is the RAG-lite entry point: search, then frame the surviving
// cells as a single prompt block instead of a raw score listing.
func runAsk(ctx context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	collection := fs.String("collection", "default", "collection to search")
	topK := fs.Int("top-k", cfg.DefaultTopK, "number of cells to retrieve")
	filterExpr := fs.String("filter", "", "filter predicate, e.g. \"type=TABLE,min_importance=0.5\"")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("ask: missing query text")
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

	hits, err := store.HybridSearch(ctx, *collection, query, queryEmbedding, filters)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Println(renderAskBlock(query, hits))
	logger.Info("ask complete", zap.String("collection", *collection), zap.Int("hits", len(hits)))
	return nil
}

func renderAskBlock(query string, hits []retrieve.ScoredCell) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<ctx3d-retrieval query=%q hits=%d>\n", query, len(hits))
	for _, h := range hits {
		fmt.Fprintf(&b, "(source=%s type=%s score=%.4f) %q\n", h.DocumentSource, h.CellType, h.Score, h.Text)
	}
	b.WriteString("</ctx3d-retrieval>")
	return b.String()
}
