package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *ErrorHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewErrorHandler(logger, false)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/rental/results", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "api error batch not found",
			err:        ErrBatchNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "api error schema",
			err:        DatasetSchemaError("缺少必填字段: 租金（㎡/元）"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDatasetSchema,
		},
		{
			name:       "app error parsing",
			err:        NewParsingError("unreadable workbook", nil),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeDatasetUnread,
		},
		{
			name:       "app error not found",
			err:        NewNotFoundError("batch"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "plain not found string",
			err:        errors.New("report not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/rental/results", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/rental/export", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrBatchNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "BATCH_NOT_FOUND", body["error_code"])
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeDatasetSchema, "Unprocessable Entity", "missing columns", "/api/rental/process").
		WithExtension("missing", []string{"计租面积（㎡）"})

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, TypeDatasetSchema, decoded["type"])
	assert.Contains(t, decoded, "missing")
}

func TestHandlePanic(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/rental/process", nil)
	rec := httptest.NewRecorder()

	h.HandlePanic(rec, req, "unexpected nil")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeInternal)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := newTestHandler(t)
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)

	RecoveryMiddleware(h)(panicking).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
