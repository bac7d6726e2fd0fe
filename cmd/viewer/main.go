package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dvloznov/transactions-viewer/internal/config"
	"github.com/dvloznov/transactions-viewer/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	bootLog := logger.New()
	cfg := config.Load(bootLog)

	log, closer := newLogger(cfg, cmd)
	defer closer.Close()

	ctx := logger.WithContext(context.Background(), log)

	switch cmd {
	case "menu":
		runMenu(ctx, log, cfg)
	case "report":
		runReport(ctx, log, cfg)
	case "export":
		runExport(ctx, log, cfg)
	case "migrate":
		runMigrate(ctx, log, cfg)
	case "inspect":
		runInspect(ctx, log, cfg)
	case "convert":
		runConvert(ctx, log, cfg)
	case "stats":
		runStats(ctx, log, cfg)
	case "scan":
		runScan(log)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Transactions Viewer")
	fmt.Println("\nUsage:")
	fmt.Println("  viewer <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  menu      Interactive session over the configured source files")
	fmt.Println("  report    Load, filter and print transactions")
	fmt.Println("  export    Export the selected transactions to BigQuery, MongoDB or GCS")
	fmt.Println("  migrate   Create the BigQuery export table")
	fmt.Println("  inspect   Show the rows of a BigQuery export")
	fmt.Println("  convert   Convert an amount into the reference currency")
	fmt.Println("  stats     Count transactions per category keyword")
	fmt.Println("  scan      Count files and folders in a directory")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'viewer <command> -h' for more information on a command.")
}

// newLogger builds the run logger. The interactive menu logs to <LogDir>/viewer.log
// so that log lines do not interleave with prompts; other commands log to stderr.
func newLogger(cfg *config.Config, cmd string) (zerolog.Logger, io.Closer) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		l := logger.New()
		l.Warn().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level, using info")
	}

	var (
		log    zerolog.Logger
		closer io.Closer = io.NopCloser(nil)
	)
	if cmd == "menu" {
		fileLog, c, err := logger.NewFile(cfg.LogDir, "viewer")
		if err != nil {
			l := logger.New()
			l.Warn().Err(err).Str("dir", cfg.LogDir).Msg("file logging unavailable, logging to stderr")
			log = logger.New()
		} else {
			log, closer = fileLog, c
		}
	} else {
		log = logger.New()
	}

	log = logger.WithFields(log.Level(level), map[string]interface{}{
		"run_id":  uuid.NewString(),
		"command": cmd,
	})
	return log, closer
}
