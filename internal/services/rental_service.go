package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"leasecli/internal/config"
	"leasecli/internal/dataset"
	apperrors "leasecli/internal/errors"
	"leasecli/internal/exporter"
	"leasecli/internal/infrastructure"
	"leasecli/internal/rental"
	"leasecli/pkg/contracts/domain"
)

// Export formats accepted by Export and StreamExport.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatBoth = "both"
)

// Progress percentages for the batch lifecycle. Row processing fills the
// span between readDone and processDone.
const (
	progressRead     = 10
	progressReadDone = 30
	progressRowsDone = 95
	progressComplete = 100
)

// ProgressPublisher pushes batch lifecycle events to connected clients.
// The websocket hub satisfies it; the CLI and tests plug in their own.
type ProgressPublisher interface {
	BroadcastProgress(step string, progress int, message string)
	BroadcastError(code, message string)
}

// noopPublisher swallows events when no hub is attached.
type noopPublisher struct{}

func (noopPublisher) BroadcastProgress(string, int, string) {}
func (noopPublisher) BroadcastError(string, string)         {}

// BatchView is the stored product of one upload: the raw outcome plus the
// report table and summary rendered from it. Views are immutable once
// stored; a new upload replaces the whole view.
type BatchView struct {
	Filename    string          `json:"filename"`
	ProcessedAt time.Time       `json:"processed_at"`
	Outcome     *domain.Outcome `json:"outcome"`
	Table       *exporter.Table `json:"table"`
	Summary     *Summary        `json:"summary"`
}

// RentalService runs uploaded lease datasets through the batch processor
// and owns the single current batch.
type RentalService struct {
	logger    *slog.Logger
	cfg       config.ProcessingConfig
	horizon   rental.Horizon
	paths     *config.Paths
	csv       *exporter.CSVWriter
	excel     *exporter.ExcelWriter
	publisher ProgressPublisher
	metrics   *infrastructure.BusinessMetrics

	mu      sync.RWMutex
	current *BatchView
}

// NewRentalService creates the rental service. publisher and metrics may
// be nil; events and measurements are then dropped.
func NewRentalService(logger *slog.Logger, cfg config.ProcessingConfig, paths *config.Paths, publisher ProgressPublisher, metrics *infrastructure.BusinessMetrics) *RentalService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}

	return &RentalService{
		logger:    logger.With(slog.String("service", "rental")),
		cfg:       cfg,
		horizon:   rental.DefaultHorizon(),
		paths:     paths,
		csv:       exporter.NewCSVWriter(paths),
		excel:     exporter.NewExcelWriter(paths),
		publisher: publisher,
		metrics:   metrics,
	}
}

// Horizon returns the projection window batches run over.
func (s *RentalService) Horizon() rental.Horizon {
	return s.horizon
}

// Process reads one uploaded dataset and runs it as a batch. The outcome
// replaces the current batch, including the fatal-schema case, so the
// results endpoints always reflect the latest upload. A fatal schema
// error is returned to the caller after the view is stored; dataset read
// failures leave the previous batch in place.
func (s *RentalService) Process(ctx context.Context, filename string, r io.Reader) (*BatchView, error) {
	start := time.Now()
	s.logger.InfoContext(ctx, "batch started", slog.String("file", filename))
	s.publisher.BroadcastProgress("read", progressRead, "读取文件中")

	table, err := dataset.ReadFrom(r, filename, s.logger)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset read failed",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		s.publisher.BroadcastError("dataset_unreadable", err.Error())
		return nil, err
	}

	s.publisher.BroadcastProgress("process", progressReadDone, "数据读取完成，开始处理")

	processor := rental.NewProcessor(s.horizon, s.logger,
		rental.WithProgressEvery(s.cfg.ProgressEvery),
		rental.WithProgressFunc(s.rowProgressFunc()),
	)
	outcome := processor.Process(ctx, table)

	view := &BatchView{
		Filename:    filename,
		ProcessedAt: time.Now(),
		Outcome:     outcome,
		Table:       exporter.BuildTable(outcome.Results, s.horizon),
		Summary:     BuildSummary(outcome, s.horizon),
	}

	s.mu.Lock()
	s.current = view
	s.mu.Unlock()

	infrastructure.RecordBatchMetrics(ctx, s.metrics, outcome.Stats.BatchID,
		time.Since(start), outcome.Stats.Succeeded, outcome.Stats.Skipped, !outcome.Fatal())

	if outcome.Fatal() {
		s.logger.WarnContext(ctx, "batch aborted on schema check",
			slog.String("file", filename),
			slog.String("batch_id", outcome.Stats.BatchID),
			slog.String("error", outcome.SchemaError))
		s.publisher.BroadcastError("dataset_schema", outcome.SchemaError)
		return view, apperrors.DatasetSchemaError(outcome.SchemaError)
	}

	s.publisher.BroadcastProgress("complete", progressComplete, "数据处理完成")
	s.logger.InfoContext(ctx, "batch completed",
		slog.String("file", filename),
		slog.String("batch_id", outcome.Stats.BatchID),
		slog.Int("total_rows", outcome.Stats.TotalRows),
		slog.Int("succeeded", outcome.Stats.Succeeded),
		slog.Int("skipped", outcome.Stats.Skipped),
		slog.Duration("elapsed", time.Since(start)))

	return view, nil
}

// rowProgressFunc maps row counts onto the processing span of the
// progress scale, throttled to the configured cadence.
func (s *RentalService) rowProgressFunc() func(current, total int) {
	every := s.cfg.ProgressEvery
	if every <= 0 {
		every = config.DefaultProgressEvery
	}

	return func(current, total int) {
		if current != total && current%every != 0 {
			return
		}
		span := progressRowsDone - progressReadDone
		percent := progressReadDone
		if total > 0 {
			percent += span * current / total
		}
		s.publisher.BroadcastProgress("process", percent,
			fmt.Sprintf("正在处理第 %d/%d 条记录", current, total))
	}
}

// Results returns the current batch view.
func (s *RentalService) Results(ctx context.Context) (*BatchView, error) {
	return s.view()
}

// Summary returns the current batch summary.
func (s *RentalService) Summary(ctx context.Context) (*Summary, error) {
	view, err := s.view()
	if err != nil {
		return nil, err
	}
	return view.Summary, nil
}

// Errors returns the current batch's row-level error strings.
func (s *RentalService) Errors(ctx context.Context) ([]string, error) {
	view, err := s.view()
	if err != nil {
		return nil, err
	}
	return view.Outcome.Errors, nil
}

// Logs returns the current batch's processing log.
func (s *RentalService) Logs(ctx context.Context) ([]domain.LogEntry, error) {
	view, err := s.view()
	if err != nil {
		return nil, err
	}
	return view.Outcome.Logs, nil
}

// Export writes the current batch's report files under the reports
// directory and returns the written paths. FormatBoth writes CSV and
// XLSX concurrently.
func (s *RentalService) Export(ctx context.Context, format string) ([]string, error) {
	view, err := s.view()
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		if err := s.exportCSVFile(ctx, view.Table); err != nil {
			return nil, err
		}
		return []string{s.paths.ResultsCSV}, nil

	case FormatXLSX:
		if err := s.exportExcelFile(ctx, view.Table); err != nil {
			return nil, err
		}
		return []string{s.paths.ResultsXLSX}, nil

	case FormatBoth:
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return s.exportCSVFile(gctx, view.Table) })
		g.Go(func() error { return s.exportExcelFile(gctx, view.Table) })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return []string{s.paths.ResultsCSV, s.paths.ResultsXLSX}, nil

	default:
		return nil, apperrors.NewWithDetails(
			apperrors.ErrInvalidParameter.StatusCode,
			apperrors.ErrInvalidParameter.ErrorCode,
			fmt.Sprintf("unknown export format %q", format),
			[]string{FormatCSV, FormatXLSX, FormatBoth},
		)
	}
}

// StreamExport renders the current batch's report straight to w, for HTTP
// downloads. Only single formats stream.
func (s *RentalService) StreamExport(ctx context.Context, format string, w io.Writer) error {
	view, err := s.view()
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		err = exporter.WriteCSVTo(w, view.Table, true)
	case FormatXLSX:
		err = exporter.WriteWorkbookTo(w, view.Table)
	default:
		return apperrors.NewWithDetails(
			apperrors.ErrInvalidParameter.StatusCode,
			apperrors.ErrInvalidParameter.ErrorCode,
			fmt.Sprintf("unknown export format %q", format),
			[]string{FormatCSV, FormatXLSX},
		)
	}

	infrastructure.RecordExportMetrics(ctx, s.metrics, format, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "export stream failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
	}
	return err
}

func (s *RentalService) exportCSVFile(ctx context.Context, table *exporter.Table) error {
	err := s.csv.WriteTable(config.ResultsCSVName, table)
	infrastructure.RecordExportMetrics(ctx, s.metrics, FormatCSV, err)
	if err != nil {
		return apperrors.NewStorageError("failed to write CSV report", err)
	}
	s.logger.InfoContext(ctx, "report written", slog.String("path", s.paths.ResultsCSV))
	return nil
}

func (s *RentalService) exportExcelFile(ctx context.Context, table *exporter.Table) error {
	err := s.excel.WriteTable(config.ResultsXLSXName, table)
	infrastructure.RecordExportMetrics(ctx, s.metrics, FormatXLSX, err)
	if err != nil {
		return apperrors.NewStorageError("failed to write XLSX report", err)
	}
	s.logger.InfoContext(ctx, "report written", slog.String("path", s.paths.ResultsXLSX))
	return nil
}

func (s *RentalService) view() (*BatchView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperrors.ErrBatchNotFound
	}
	return s.current, nil
}
