package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/decode"
)

func runDecode(_ context.Context, _ *config.Config, _ *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	page := fs.Int("page", -1, "decode a single page index (z); -1 decodes the whole document")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("decode: missing input path")
	}

	doc, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}

	if *page >= 0 {
		fmt.Println(decode.PageToText(doc, int32(*page)))
		return nil
	}
	fmt.Println(decode.ToText(doc))
	return nil
}
