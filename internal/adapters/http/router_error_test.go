package httpadapter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

func TestGetDocumentNotFoundMapsTo404(t *testing.T) {
	handler := NewRouter(RouterConfig{}, ingestSuccessFake{}, readerFake{
		docErr: domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id missing")),
	}, exporterFake{}, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestExportFailureMapsTo500(t *testing.T) {
	handler := NewRouter(RouterConfig{}, ingestSuccessFake{}, readerFake{}, exporterFake{
		err: errors.New("db down"),
	}, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/review/export", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.WrapError(domain.ErrInvalidInput, "op", errors.New("x")), http.StatusBadRequest},
		{domain.WrapError(domain.ErrUnsupported, "op", errors.New("x")), http.StatusUnsupportedMediaType},
		{domain.WrapError(domain.ErrDocumentNotFound, "op", errors.New("x")), http.StatusNotFound},
		{domain.WrapError(domain.ErrTemporary, "op", errors.New("x")), http.StatusServiceUnavailable},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := mapErrorToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("mapErrorToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestUnknownDocumentSubresourceIs404(t *testing.T) {
	handler := newTestHandler(RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1/unknown", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}
