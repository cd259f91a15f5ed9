package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"decimal-calculator/internal/calculator"
	"decimal-calculator/internal/config"
	"decimal-calculator/internal/history"
	"decimal-calculator/internal/observability"
	"decimal-calculator/internal/render"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}

	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	precision := fs.Int("precision", int(cfg.Precision), "fractional digits of the printed result")
	asJSON := fs.Bool("json", false, "print the calculation record as JSON")
	asMemento := fs.Bool("memento", false, "print a history snapshot holding the calculation as JSON")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: calc [flags] <operation> <operand1> <operand2>\n")
		fmt.Fprintf(stderr, "operations: %v\n", calculator.Operations())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 3 || *precision < 0 {
		fs.Usage()
		return exitUsage
	}

	operand1, err := decimal.NewFromString(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "invalid operand1 %q: %v\n", fs.Arg(1), err)
		return exitUsage
	}
	operand2, err := decimal.NewFromString(fs.Arg(2))
	if err != nil {
		fmt.Fprintf(stderr, "invalid operand2 %q: %v\n", fs.Arg(2), err)
		return exitUsage
	}

	// Logger
	if err := observability.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return exitUsage
	}
	defer observability.SyncLogger()

	// Tracing, metrics, log export
	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		observability.Logger.Error("telemetry init failed", zap.Error(err))
		return exitFailure
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			observability.Logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	ctx, _ = observability.EnsureRunID(ctx, cfg.RunID)

	calc, err := calculator.Evaluate(ctx, calculator.Operation(fs.Arg(0)), operand1, operand2)
	if err != nil {
		if *asJSON || *asMemento {
			_ = render.WriteError(stderr, err.Error())
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return exitFailure
	}

	switch {
	case *asMemento:
		err = render.WriteJSON(stdout, history.New([]calculator.Calculation{calc}))
	case *asJSON:
		err = render.WriteJSON(stdout, calc)
	default:
		_, err = fmt.Fprintf(stdout, "%s(%s, %s) = %s\n",
			calc.Operation(), calc.Operand1(), calc.Operand2(), calc.FormatResult(int32(*precision)))
	}
	if err != nil {
		observability.Logger.Error("writing output failed", zap.Error(err))
		return exitFailure
	}

	return exitOK
}
