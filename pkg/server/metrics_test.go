package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ukaji3/ptrboard-go/pkg/accounts"
	"github.com/ukaji3/ptrboard-go/pkg/auth"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/cache"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/render"
)

func TestMetrics_Cache(t *testing.T) {
	m := NewMetrics()

	count, err := testutil.GatherAndCount(m.Registry(), "ptrboard_cache_entries")
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no cache metrics before WatchCache, got %d", count)
	}

	c := cache.New()
	cache.Do(c, cache.Key("files"), func() (int, error) { return 1, nil })
	m.WatchCache(c)

	for _, name := range []string{"ptrboard_cache_entries", "ptrboard_cache_hits_total", "ptrboard_cache_misses_total"} {
		count, err := testutil.GatherAndCount(m.Registry(), name)
		if err != nil {
			t.Fatalf("Failed to gather metrics: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected %s, got %d series", name, count)
		}
	}
}

func TestMetrics_Observers(t *testing.T) {
	m := NewMetrics()

	m.ObserveNormalize("Login", 20*time.Millisecond, nil)
	m.ObserveNormalize("Broken", time.Millisecond, ptrboard.ErrHeaderNotFound)
	m.RecordError(CodeHeaderNotFound)
	m.RecordError(CodeHeaderNotFound)
	m.recordRequest("GET /api/files", "GET", http.StatusOK, time.Millisecond)

	if got := testutil.ToFloat64(m.errorsTotal.WithLabelValues(CodeHeaderNotFound)); got != 2 {
		t.Errorf("Expected 2 header errors, got %v", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET /api/files", "GET", "200")); got != 1 {
		t.Errorf("Expected 1 request, got %v", got)
	}
	if got := testutil.CollectAndCount(m.normalizeDuration); got != 2 {
		t.Errorf("Expected ok and error series, got %d", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &accounts.ValidationError{Field: "email", Message: "is invalid"}, http.StatusBadRequest, CodeValidation},
		{"bad request", fmt.Errorf("%w: eof", ErrBadRequest), http.StatusBadRequest, CodeBadRequest},
		{"credentials", accounts.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"token", auth.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthenticated},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{"file", fmt.Errorf("%w: x", ptrboard.ErrFileNotFound), http.StatusNotFound, CodeFileNotFound},
		{"sheet", &ptrboard.MissingSheetError{Sheet: "X"}, http.StatusNotFound, CodeSheetNotFound},
		{"header", &ptrboard.HeaderNotFoundError{Marker: "Features", Scanned: 20}, http.StatusUnprocessableEntity, CodeHeaderNotFound},
		{"column", ptrboard.NewMissingColumnError("percentages", "OS"), http.StatusUnprocessableEntity, CodeMissingColumn},
		{"mismatch wraps column", &ptrboard.FormatMismatchError{Version: "V1", Err: ptrboard.NewMissingColumnError("flow", "OS")}, http.StatusUnprocessableEntity, CodeFormatMismatch},
		{"invalid format", ptrboard.ErrInvalidFormat, http.StatusUnprocessableEntity, CodeInvalidFormat},
		{"no data", render.ErrNoData, http.StatusUnprocessableEntity, CodeNoData},
		{"transfer", &ptrboard.TransferError{FileID: "f", Offset: 10, Err: errors.New("reset")}, http.StatusBadGateway, CodeTransfer},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("classify() = %d/%s, want %d/%s", status, code, tt.status, tt.code)
			}
		})
	}
}
