package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"ctx3d/internal/bench"
	"ctx3d/internal/config"
	"ctx3d/internal/tokenstats"
)

func runBench(_ context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	mode := fs.String("mode", "full", "encode|decode|full")
	goldRoot := fs.String("gold", "", "directory of gold page_NNNN.txt transcripts, parallel to the corpus")
	output := fs.String("jsonl", "", "optional JSONL path to append per-run result/page rows to")
	cerMax := fs.Float64("cer-max", 0, "fail if worst-case CER exceeds this (0 disables the check)")
	werMax := fs.Float64("wer-max", 0, "fail if worst-case WER exceeds this (0 disables the check)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("bench: missing corpus root")
	}

	bcfg := bench.Config{
		Mode:        bench.ParseMode(*mode),
		Root:        fs.Arg(0),
		GoldRoot:    *goldRoot,
		Preset:      cfg.Preset,
		Hyphenation: cfg.Hyphenation,
		Tokenizer:   tokenstats.ParseKind(cfg.TokenizerName),
	}

	runner, err := bench.New(bcfg, *output)
	if err != nil {
		return fmt.Errorf("build bench runner: %w", err)
	}
	metrics, err := runner.Run()
	if err != nil {
		return fmt.Errorf("run bench: %w", err)
	}

	fmt.Printf("documents:          %d\n", len(metrics.Results))
	fmt.Printf("mean savings ratio: %.4f\n", metrics.MeanSavings)
	fmt.Printf("median savings:     %.4f\n", metrics.MedianSavings)
	fmt.Printf("encode p50/p95 ms:  %.2f / %.2f\n", metrics.EncodeP50Ms, metrics.EncodeP95Ms)
	fmt.Printf("decode p50/p95 ms:  %.2f / %.2f\n", metrics.DecodeP50Ms, metrics.DecodeP95Ms)
	fmt.Printf("mem peak mb:        %.2f\n", metrics.MaxMemMB)

	var thresholds bench.Thresholds
	if *cerMax > 0 {
		thresholds.CERMax = cerMax
	}
	if *werMax > 0 {
		thresholds.WERMax = werMax
	}
	if err := bench.Enforce(metrics, thresholds); err != nil {
		return err
	}

	logger.Info("bench run complete", zap.Int("documents", len(metrics.Results)))
	return nil
}
