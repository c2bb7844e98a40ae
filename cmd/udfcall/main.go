// Command udfcall loads a compiled scalar-function module and runs one
// invocation against an Arrow IPC file.
//
// Usage:
//
//	udfcall -module fn.wasm -input batch.arrow -output result.arrow
//	udfcall -config call.toml
//	udfcall -module fn.wasm -list
//
// Flags override values from the TOML config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hugr-lab/udf-go/host"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		modulePath = flag.String("module", "", "path to the compiled function module")
		function   = flag.String("function", "", "function name (empty uses the bound entry point)")
		inputPath  = flag.String("input", "", "path to the input Arrow IPC file")
		outputPath = flag.String("output", "", "path to write the result file")
		list       = flag.Bool("list", false, "list the module's functions and exit")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *modulePath != "" {
		cfg.Module = *modulePath
	}
	if *function != "" {
		cfg.Function = *function
	}
	if *inputPath != "" {
		cfg.Input = *inputPath
	}
	if *outputPath != "" {
		cfg.Output = *outputPath
	}

	if err := cfg.validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger, *list); err != nil {
		logger.Error("udfcall failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, logger *slog.Logger, list bool) error {
	wasmBytes, err := os.ReadFile(cfg.Module)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}

	rt, err := host.NewRuntime(ctx, host.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.Load(ctx, wasmBytes)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}
	defer mod.Close(ctx)

	if list {
		sigs, err := mod.Functions(ctx)
		if err != nil {
			return fmt.Errorf("list functions: %w", err)
		}
		for _, s := range sigs {
			fmt.Printf("%s(%s) -> %s\n", s.Name, strings.Join(s.ArgTypes, ", "), s.ReturnType)
		}
		return nil
	}

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}
	input, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var out []byte
	if cfg.Function == "" {
		out, err = mod.Invoke(ctx, input)
	} else {
		out, err = mod.InvokeNamed(ctx, cfg.Function, input)
	}
	if err != nil {
		return fmt.Errorf("invoke: %w", err)
	}

	if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("invocation completed",
		"function", cfg.Function,
		"input_bytes", len(input),
		"output_bytes", len(out),
		"output", cfg.Output,
	)
	return nil
}
