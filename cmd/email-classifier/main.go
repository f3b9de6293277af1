package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/montimage/email-domain-classifier/internal/core"
	"github.com/montimage/email-domain-classifier/internal/di"
	"github.com/montimage/email-domain-classifier/internal/processor"
	"github.com/montimage/email-domain-classifier/internal/report"
)

func main() {
	flags := di.ParseFlags()

	if flags.InputFile == "" {
		fmt.Println("Usage: email-classifier -input <emails.csv> [-output-dir <dir>]")
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	flags *di.Flags,
	logger *zap.Logger,
	proc *processor.Processor,
	reporter *report.Reporter,
	third core.MethodScorer,
) error {
	defer logger.Sync()

	// Cancel the run on SIGINT/SIGTERM; sinks are closed and stats reported
	// for the records processed so far.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := proc.Process(ctx, flags.InputFile, flags.OutputDir)

	if third != nil {
		if stopper, ok := third.(interface{ Stop() }); ok {
			stopper.Stop()
		}
		if closer, ok := third.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil {
				logger.Error("Failed to close third-method client", zap.Error(cerr))
			}
		}
	}

	if err != nil && !errors.Is(err, processor.ErrStrictValidation) {
		return err
	}

	if rerr := printReport(reporter, stats, flags.ReportFormat); rerr != nil {
		return rerr
	}
	return err
}

func printReport(reporter *report.Reporter, stats *processor.Stats, format string) error {
	switch format {
	case "json":
		out, err := reporter.JSON(stats)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		fmt.Print(reporter.Text(stats))
	}
	return nil
}
