package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/linkcleaner/internal/batch"
	"github.com/aleister1102/linkcleaner/internal/common/errorwrapper"
	"github.com/aleister1102/linkcleaner/internal/config"
	"github.com/aleister1102/linkcleaner/internal/engine"
	"github.com/aleister1102/linkcleaner/internal/logger"
	"github.com/aleister1102/linkcleaner/internal/resolver"
	"github.com/aleister1102/linkcleaner/internal/urlhandler"
	"github.com/rs/zerolog"
)

func main() {
	flags, err := ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, flags, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, flags AppFlags, stdout, stderr io.Writer) error {
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		return errorwrapper.WrapError(err, fmt.Sprintf("could not load global config using path '%s'", flags.GlobalConfigFile))
	}

	built, err := logger.NewLoggerBuilder().WithConfig(gCfg.LogConfig).WithOutput(stderr).Build()
	if err != nil {
		return errorwrapper.WrapError(err, "could not initialize logger")
	}
	zLogger := *built.GetZerolog()

	if err := config.ValidateConfig(gCfg); err != nil {
		return err
	}
	zLogger.Debug().Msg("Configuration validated successfully")

	redirectResolver, err := resolver.NewRedirectResolverBuilder(zLogger).
		WithConfig(gCfg.ResolverConfig).
		WithHTTPClientConfig(gCfg.HTTPClientConfig).
		Build()
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create redirect resolver")
	}

	encoder := json.NewEncoder(stdout)

	if flags.ResolveOnly {
		return encoder.Encode(redirectResolver.Resolve(ctx, flags.URL, resolver.Options{}))
	}

	strategyEngine, err := engine.NewEngineBuilder(zLogger).
		WithConfig(gCfg.EngineConfig).
		WithResolver(redirectResolver).
		Build()
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create strategy engine")
	}

	if flags.URLFile != "" {
		return runBatch(ctx, flags, gCfg.BatchConfig, strategyEngine, encoder, zLogger)
	}

	cleanFn := strategyEngine.CleanURL
	if flags.Preview {
		zLogger.Info().Str("url", flags.URL).Msg("Preview mode")
		cleanFn = strategyEngine.Preview
	}
	result, err := cleanFn(ctx, flags.URL, flags.StrategyID)
	if err != nil {
		return err
	}
	return encoder.Encode(result)
}

func runBatch(ctx context.Context, flags AppFlags, cfg config.BatchConfig, cleaner batch.URLCleaner, encoder *json.Encoder, zLogger zerolog.Logger) error {
	urls, err := urlhandler.ReadURLsFromFile(flags.URLFile, zLogger)
	if err != nil {
		return err
	}

	items, summary, err := batch.NewProcessor(cleaner, cfg, zLogger).Process(ctx, urls, flags.StrategyID)
	for _, item := range items {
		if encErr := encoder.Encode(item); encErr != nil {
			return encErr
		}
	}
	if err != nil {
		return errorwrapper.WrapError(err, "batch interrupted")
	}
	if summary.Failed > 0 {
		zLogger.Warn().Int("failed", summary.Failed).Int("total", summary.Total).Msg("Some URLs could not be cleaned")
	}
	return nil
}
