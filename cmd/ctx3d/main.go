// Command ctx3d is the thin CLI surface over the encode/decode/retrieve
// pipeline: each subcommand parses its own flag.FlagSet and calls straight
// into the internal packages that do the work.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ctx3d/internal/config"
	"ctx3d/internal/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger, err := telemetry.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer telemetry.Sync()

	cfg := config.Load(logger)
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	var cmdErr error
	switch cmd {
	case "encode":
		cmdErr = runEncode(ctx, cfg, logger, args)
	case "decode":
		cmdErr = runDecode(ctx, cfg, logger, args)
	case "serialize":
		cmdErr = runSerialize(ctx, cfg, logger, args)
	case "context":
		cmdErr = runContext(ctx, cfg, logger, args)
	case "stats":
		cmdErr = runStats(ctx, cfg, logger, args)
	case "chunk":
		cmdErr = runChunk(ctx, cfg, logger, args)
	case "embed":
		cmdErr = runEmbed(ctx, cfg, logger, args)
	case "bench":
		cmdErr = runBench(ctx, cfg, logger, args)
	case "index":
		cmdErr = runIndex(ctx, cfg, logger, args)
	case "search":
		cmdErr = runSearch(ctx, cfg, logger, args)
	case "init":
		cmdErr = runInit(ctx, cfg, logger, args)
	case "ask":
		cmdErr = runAsk(ctx, cfg, logger, args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		logger.Error("command failed", zap.String("command", cmd), zap.Error(cmdErr))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `ctx3d - 3DCF document compression and retrieval

Usage:
  ctx3d encode    <input>         encode a document into 3DCF (writes .3dcf)
  ctx3d decode    <input.3dcf>    decode a 3DCF document back to plain text
  ctx3d serialize <input.3dcf>    render a 3DCF document as framed prompt text
  ctx3d context   <input>         encode then serialize in one step
  ctx3d stats     <input.3dcf>    print token/compression/numguard stats
  ctx3d chunk     <input.3dcf>    split a document into retrieval chunks
  ctx3d embed     <input.3dcf>    embed a document's chunks
  ctx3d bench     <corpus-dir>    run the encode/decode benchmark harness
  ctx3d init      <collection>    create/open a retrieval store and collection
  ctx3d index     <input>         encode, embed, and index a document
  ctx3d search    <query>         cosine/hybrid search over an indexed collection
  ctx3d ask       <query>         search then print retrieved cells as a prompt block

Run "ctx3d <command> -h" for command-specific flags.`)
}
