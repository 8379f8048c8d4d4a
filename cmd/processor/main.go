// Command processor runs a lease contract dataset through the monthly rent
// calculation without the web server and writes the report files.
//
// Usage:
//
//	processor -in 台账.xlsx [-out dir] [-format csv|xlsx|both] [-verbose]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"leasecli/internal/config"
	"leasecli/internal/dataset"
	"leasecli/internal/exporter"
	"leasecli/internal/rental"
	"leasecli/internal/services"
	"leasecli/pkg/contracts/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	inFile := flag.String("in", "", "input contract dataset (.csv, .xlsx or .xls)")
	outDir := flag.String("out", "", "output directory for report files (defaults to data/reports next to the executable)")
	format := flag.String("format", services.FormatBoth, "report format: csv, xlsx or both")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: -in")
		flag.Usage()
		return 2
	}

	switch *format {
	case services.FormatCSV, services.FormatXLSX, services.FormatBoth:
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (want csv, xlsx or both)\n", *format)
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *outDir == "" {
		if paths, err := config.GetPaths(); err == nil {
			*outDir = paths.ReportsDir
		} else {
			*outDir = "."
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	horizon := rental.DefaultHorizon()
	outcome, err := process(ctx, logger, horizon, *inFile)
	if err != nil {
		logger.Error("dataset processing failed", slog.String("error", err.Error()))
		return 1
	}

	// Skipped rows are not fatal; they are reported and the batch goes on.
	for _, rowErr := range outcome.Errors {
		fmt.Fprintln(os.Stderr, rowErr)
	}

	if outcome.Fatal() {
		fmt.Fprintln(os.Stderr, outcome.SchemaError)
		return 1
	}

	summary := services.BuildSummary(outcome, horizon)
	fmt.Printf("处理完成: %d 行, 成功 %d, 跳过 %d\n",
		outcome.Stats.TotalRows, outcome.Stats.Succeeded, outcome.Stats.Skipped)
	fmt.Printf("%d年租金小计: %s 万元\n", summary.SubtotalYear, summary.SubtotalRent)
	fmt.Printf("%d年租金预测: %s 万元\n", summary.ForecastYear, summary.ForecastRent)

	written, err := export(outcome, horizon, *outDir, *format)
	if err != nil {
		logger.Error("report export failed", slog.String("error", err.Error()))
		return 1
	}
	for _, path := range written {
		fmt.Printf("已生成: %s\n", path)
	}

	return 0
}

// process reads the dataset and runs the batch calculation with a terminal
// progress bar.
func process(ctx context.Context, logger *slog.Logger, horizon rental.Horizon, inFile string) (*domain.Outcome, error) {
	f, err := os.Open(inFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := dataset.ReadFrom(f, filepath.Base(inFile), logger)
	if err != nil {
		return nil, err
	}

	bar := progressbar.Default(int64(len(table.Rows)))
	processor := rental.NewProcessor(horizon, logger,
		rental.WithProgressFunc(func(current, total int) {
			bar.Add(1)
		}),
	)

	outcome := processor.Process(ctx, table)
	bar.Finish()

	return outcome, nil
}

// export writes the requested report files into outDir.
func export(outcome *domain.Outcome, horizon rental.Horizon, outDir, format string) ([]string, error) {
	table := exporter.BuildTable(outcome.Results, horizon)

	var written []string
	if format == services.FormatCSV || format == services.FormatBoth {
		target := filepath.Join(outDir, config.ResultsCSVName)
		if err := exporter.NewCSVWriter(nil).WriteTable(target, table); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	if format == services.FormatXLSX || format == services.FormatBoth {
		target := filepath.Join(outDir, config.ResultsXLSXName)
		if err := exporter.NewExcelWriter(nil).WriteTable(target, table); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}
