package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("failed to set up logger: %w", err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate-model":
		if err := runValidateModel(os.Args[2:]); err != nil {
			sugar.Fatalf("validate-model: %v", err)
		}
	case "dump-properties":
		if err := runDumpProperties(os.Args[2:]); err != nil {
			sugar.Fatalf("dump-properties: %v", err)
		}
	case "init-db":
		if err := runInitDB(os.Args[2:]); err != nil {
			sugar.Fatalf("init-db: %v", err)
		}
	default:
		sugar.Errorf("unknown command %q", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	logger := zap.S()
	logger.Info("Usage: mixer-tools <command> [options]")
	logger.Info("")
	logger.Info("Commands:")
	logger.Info("  validate-model    Validate an object-model JSON file and print a summary")
	logger.Info("  dump-properties   Print the synchronized properties per type for a configuration")
	logger.Info("  init-db           Create the PostgreSQL object-model table and optionally seed it")
}
