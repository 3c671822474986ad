package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/serialize"
)

func buildSerializeConfig(cfg *config.Config, budget int) serialize.Config {
	sc := serialize.DefaultConfig()
	sc.MaxPreviewChars = cfg.MaxPreviewChars
	sc.TableMode = serialize.ParseTableMode(cfg.TableMode)
	sc.IncludeGrammar = cfg.GrammarHint != ""
	sc.PresetLabel = cfg.Preset
	if budget > 0 {
		sc.BudgetLabel = fmt.Sprintf("%d", budget)
	}
	return sc
}

func runSerialize(_ context.Context, cfg *config.Config, _ *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("serialize", flag.ExitOnError)
	budget := fs.Int("budget", cfg.CellBudget, "budget label to print in the framing header")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("serialize: missing input path")
	}

	doc, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}

	ts := serialize.New(buildSerializeConfig(cfg, *budget))
	fmt.Println(ts.ToString(doc))
	return nil
}
