package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ctx3d/internal/chunk"
	"ctx3d/internal/config"
	"ctx3d/internal/tokenstats"
)

func buildChunker(cfg *config.Config) (*chunk.Chunker, error) {
	kind := tokenstats.ParseKind(cfg.TokenizerName)
	tok, err := tokenstats.Build(kind, "")
	if err != nil {
		return nil, fmt.Errorf("build tokenizer: %w", err)
	}
	cc := chunk.DefaultConfig()
	cc.Mode = chunk.ParseMode(cfg.ChunkMode)
	if cfg.ChunkCells > 0 {
		cc.CellsPerChunk = cfg.ChunkCells
	}
	if cfg.ChunkOverlapCells > 0 {
		cc.OverlapCells = cfg.ChunkOverlapCells
	}
	if cfg.ChunkMaxTokens > 0 {
		cc.MaxTokens = cfg.ChunkMaxTokens
	}
	if cfg.ChunkOverlapTokens > 0 {
		cc.OverlapTokens = cfg.ChunkOverlapTokens
	}
	return chunk.New(cc, tok), nil
}

func runChunk(_ context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("chunk", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("chunk: missing input path")
	}
	input := fs.Arg(0)

	doc, err := loadDocument(input)
	if err != nil {
		return err
	}

	c, err := buildChunker(cfg)
	if err != nil {
		return err
	}
	docID := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	records := c.ChunkDocument(doc, docID)

	for _, r := range records {
		fmt.Printf("%s\t[%d..%d]\tz=%d..%d\ttype=%s\ttokens=%d\n", r.ChunkID, r.CellStart, r.CellEnd, r.ZStart, r.ZEnd, r.DominantType, r.TokenCount)
	}
	logger.Info("chunked document", zap.String("input", input), zap.Int("chunks", len(records)))
	return nil
}
