package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/docmodel"
	"ctx3d/internal/encode"
	"ctx3d/internal/pathutil"
)

func buildEncodeConfig(cfg *config.Config, budget int) (*encode.Config, error) {
	return encode.NewConfig(cfg.Preset, cfg.Hyphenation, budget, cfg.DropFooters, cfg.DedupWindow, cfg.TolerancePx, cfg.ForceOCR, cfg.WorkerPoolSize)
}

func encodeDocument(path string, encCfg *encode.Config) (*docmodel.Document, encode.Metrics, error) {
	enc := encode.New(encCfg, nil)
	doc, metrics, err := enc.EncodePath(path)
	if err != nil {
		return nil, encode.Metrics{}, fmt.Errorf("encode %s: %w", path, err)
	}
	return doc, metrics, nil
}

func runEncode(_ context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	budget := fs.Int("budget", cfg.CellBudget, "cell budget, 0 = unbounded")
	out := fs.String("out", "", "output .3dcf path (defaults to <input>.3dcf)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("encode: missing input path")
	}
	input := fs.Arg(0)

	encCfg, err := buildEncodeConfig(cfg, *budget)
	if err != nil {
		return err
	}
	doc, metrics, err := encodeDocument(input, encCfg)
	if err != nil {
		return err
	}

	outPath := *out
	if outPath == "" {
		base := pathutil.SanitizeFilename(strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))
		outPath = filepath.Join(filepath.Dir(input), base+".3dcf")
	}
	data, err := doc.ToBytes()
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	logger.Info("encoded document",
		zap.String("input", input),
		zap.String("output", outPath),
		zap.Uint32("pages", metrics.Pages),
		zap.Uint32("cells_total", metrics.CellsTotal),
		zap.Uint32("cells_kept", metrics.CellsKept),
	)
	return nil
}

func loadDocument(path string) (*docmodel.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return docmodel.FromBytes(data)
}
