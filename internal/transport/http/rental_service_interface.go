package http

import (
	"context"
	"io"

	"leasecli/internal/services"
	"leasecli/pkg/contracts/domain"
)

// RentalServiceInterface defines the interface for batch processing operations
type RentalServiceInterface interface {
	Process(ctx context.Context, filename string, r io.Reader) (*services.BatchView, error)
	Results(ctx context.Context) (*services.BatchView, error)
	Summary(ctx context.Context) (*services.Summary, error)
	Errors(ctx context.Context) ([]string, error)
	Logs(ctx context.Context) ([]domain.LogEntry, error)
	StreamExport(ctx context.Context, format string, w io.Writer) error
}
