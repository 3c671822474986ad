package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/serialize"
)

// runContext implements the common "just give me a prompt block" path:
// encode straight to text without ever writing a .3dcf file to disk.
func runContext(_ context.Context, cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("context", flag.ExitOnError)
	budget := fs.Int("budget", cfg.CellBudget, "cell budget, 0 = unbounded")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("context: missing input path")
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

	ts := serialize.New(buildSerializeConfig(cfg, *budget))
	fmt.Println(ts.ToString(doc))

	logger.Info("built context block",
		zap.String("input", input),
		zap.Uint32("cells_kept", metrics.CellsKept),
	)
	return nil
}
