package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"leasecli/internal/config"
	"leasecli/internal/dataset"
	apierrors "leasecli/internal/errors"
	custommw "leasecli/internal/middleware"
	"leasecli/internal/services"
)

// Download content types for report exports.
const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// UploadRequest carries the metadata of one uploaded dataset file
type UploadRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
	Size     int64  `json:"size" validate:"gt=0"`
}

// RentalHandler handles lease dataset HTTP requests with RFC 7807 compliance
type RentalHandler struct {
	service      RentalServiceInterface
	processing   config.ProcessingConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *custommw.ValidationMiddleware
	query        *custommw.QueryParamValidator
	tips         *tipSource
}

// NewRentalHandler creates a new rental handler with RFC 7807 error handling
func NewRentalHandler(service RentalServiceInterface, processing config.ProcessingConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RentalHandler {
	return &RentalHandler{
		service:      service,
		processing:   processing,
		logger:       logger.With(slog.String("component", "rental_handler")),
		errorHandler: errorHandler,
		validation:   custommw.NewValidationMiddleware(logger, errorHandler),
		query:        custommw.NewQueryParamValidator(logger, errorHandler),
		tips:         newTipSource(time.Now().UnixNano()),
	}
}

// Routes returns the rental routes with proper Chi patterns
func (h *RentalHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Use render for consistent JSON responses
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Uploads get their own guards: size cap before the body is read and a
	// multipart content-type check.
	r.Group(func(r chi.Router) {
		r.Use(custommw.UploadLimit(h.processing.MaxUploadBytes, h.errorHandler))
		r.Use(custommw.ContentTypeValidator("multipart/form-data"))
		r.Post("/process", h.ProcessDataset)
	})

	r.Get("/results", h.GetResults)
	r.Get("/errors", h.GetErrors)
	r.Get("/logs", h.GetLogs)
	r.Get("/summary", h.GetSummary)
	r.Get("/export", h.ExportResults)
	r.Get("/tip", h.GetTip)

	return r
}

// ProcessDataset handles POST /api/rental/process. The contract dataset
// arrives as a multipart upload; the resulting batch replaces the current
// one.
func (h *RentalHandler) ProcessDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	file, header, err := r.FormFile(config.UploadFieldName)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
				"Uploaded file exceeds maximum allowed size",
				map[string]interface{}{
					"max_size": maxErr.Limit,
				},
			))
			return
		}

		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"MISSING_PARAMETER",
			fmt.Sprintf("Multipart field %q with the dataset file is required", config.UploadFieldName),
			map[string]interface{}{
				"field": config.UploadFieldName,
				"error": err.Error(),
			},
		))
		return
	}
	defer file.Close()

	upload := UploadRequest{Filename: header.Filename, Size: header.Size}
	if !h.validation.ValidateAndRespond(w, r, upload) {
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.processing.AllowsExtension(ext) {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusUnsupportedMediaType,
			"UNSUPPORTED_FILE_TYPE",
			fmt.Sprintf("Unsupported dataset format %q", ext),
			map[string]interface{}{
				"extension": ext,
				"allowed":   dataset.SupportedExtensions(),
			},
		))
		return
	}

	h.logger.InfoContext(r.Context(), "dataset upload received",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	view, err := h.service.Process(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "batch processing failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("filename", header.Filename),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"filename":     view.Filename,
		"processed_at": view.ProcessedAt,
		"stats":        view.Outcome.Stats,
		"error_count":  len(view.Outcome.Errors),
		"summary":      view.Summary,
	})
}

// GetResults handles GET /api/rental/results with RFC 7807 errors
func (h *RentalHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	view, err := h.service.Results(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get results",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"filename":     view.Filename,
		"processed_at": view.ProcessedAt,
		"data":         view.Table,
		"count":        len(view.Table.Records),
		"stats":        view.Outcome.Stats,
	})
}

// GetErrors handles GET /api/rental/errors with RFC 7807 errors
func (h *RentalHandler) GetErrors(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	rowErrors, err := h.service.Errors(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get row errors",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rowErrors,
		"count":  len(rowErrors),
	})
}

// GetLogs handles GET /api/rental/logs with RFC 7807 errors. An optional
// limit parameter returns only the newest entries.
func (h *RentalHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	limit, ok := h.query.ValidateInt(w, r, "limit", 0, 10000, 0)
	if !ok {
		return
	}

	logs, err := h.service.Logs(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get batch log",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	total := len(logs)
	if limit > 0 && total > limit {
		logs = logs[total-limit:]
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   logs,
		"count":  len(logs),
		"total":  total,
	})
}

// GetSummary handles GET /api/rental/summary with RFC 7807 errors
func (h *RentalHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get summary",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// ExportResults handles GET /api/rental/export. The report streams straight
// to the response; format selects CSV or XLSX.
func (h *RentalHandler) ExportResults(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	format, ok := h.query.ValidateEnum(w, r, "format",
		[]string{services.FormatCSV, services.FormatXLSX}, services.FormatCSV)
	if !ok {
		return
	}

	// Resolve the batch before touching headers so a missing batch still
	// renders problem JSON.
	if _, err := h.service.Results(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := config.ResultsCSVName
	contentType := contentTypeCSV
	if format == services.FormatXLSX {
		filename = config.ResultsXLSXName
		contentType = contentTypeXLSX
	}

	h.logger.InfoContext(r.Context(), "report download",
		slog.String("request_id", reqID),
		slog.String("format", format),
		slog.String("filename", filename),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", attachmentDisposition(filename, format))

	if err := h.service.StreamExport(r.Context(), format, w); err != nil {
		h.logger.ErrorContext(r.Context(), "report download failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("format", format),
		)

		// Only handle error if response not yet written
		if !isResponseWritten(w) {
			h.errorHandler.HandleError(w, r, err)
		}
	}
}

// attachmentDisposition builds a Content-Disposition header with an ASCII
// fallback name and the RFC 5987 encoded Chinese report name.
func attachmentDisposition(filename, format string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s",
		"results."+format, url.PathEscape(filename))
}

// isResponseWritten checks if response has already been written
func isResponseWritten(w http.ResponseWriter) bool {
	// Check if writer is a wrapped response writer with status
	if ww, ok := w.(interface{ Status() int }); ok {
		return ww.Status() != 0
	}
	return false
}
