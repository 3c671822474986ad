package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/numguard"
	"ctx3d/internal/serialize"
	"ctx3d/internal/tokenstats"
)

func runStats(_ context.Context, cfg *config.Config, _ *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("stats: missing input path")
	}

	doc, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}

	kind := tokenstats.ParseKind(cfg.TokenizerName)
	tok, err := tokenstats.Build(kind, "")
	if err != nil {
		return fmt.Errorf("build tokenizer: %w", err)
	}

	s := tokenstats.Measure(doc, tok, serialize.DefaultConfig())
	fmt.Printf("pages:            %d\n", len(doc.Pages))
	fmt.Printf("cells:            %d\n", len(doc.Cells))
	fmt.Printf("dictionary size:  %d\n", doc.Dict.Len())
	fmt.Printf("tokens (3dcf):    %d\n", s.Tokens3DCF)
	fmt.Printf("tokens (raw):     %d\n", s.TokensRaw)
	fmt.Printf("savings ratio:    %.4f\n", s.SavingsRatio)

	var allowed map[string]struct{}
	alerts := numguard.MismatchesWithUnits(doc, allowed)
	fmt.Printf("numguard guards:  %d\n", len(doc.NumGuards))
	fmt.Printf("numguard alerts:  %d\n", len(alerts))
	for _, a := range alerts {
		fmt.Printf("  - %s at (z=%d,x=%d,y=%d): %s\n", a.Kind, a.Guard.Z, a.Guard.X, a.Guard.Y, a.Message)
	}
	if cfg.NumGuardStrict {
		return numguard.Strict(alerts, true)
	}
	return nil
}
