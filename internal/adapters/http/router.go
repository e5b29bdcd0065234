package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/haulbase/freightdocs/internal/core/ports"
	"github.com/haulbase/freightdocs/internal/observability/metrics"
)

const serviceName = "api"

// ReviewExporter produces the back-office review worksheet.
type ReviewExporter interface {
	ExportReviewQueueXLSX(ctx context.Context, limit int) ([]byte, error)
}

type RouterConfig struct {
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxConcurrent     int
	ReviewExportLimit int
}

type Router struct {
	cfg      RouterConfig
	ingest   ports.DocumentIngestor
	reader   ports.DocumentReader
	exporter ReviewExporter
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg RouterConfig,
	ingest ports.DocumentIngestor,
	reader ports.DocumentReader,
	exporter ReviewExporter,
	m *metrics.HTTPServerMetrics,
) *Router {
	if cfg.ReviewExportLimit <= 0 {
		cfg.ReviewExportLimit = 500
	}
	return &Router{
		cfg:      cfg,
		ingest:   ingest,
		reader:   reader,
		exporter: exporter,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentSubtree)
	mux.HandleFunc("/v1/review/export", rt.exportReviewQueue)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = backpressureMiddleware(handler, rt.cfg.MaxConcurrent)
	handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	format := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		format,
		fileHeader.Size,
		file,
	)
	if err != nil {
		rt.recordUpload(format, "error", 0)
		writeError(w, err)
		return
	}

	rt.recordUpload(format, "accepted", fileHeader.Size)
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, tail, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch tail {
	case "":
		doc, err := rt.reader.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case "outcome":
		outcome, err := rt.reader.OutcomeByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, outcome)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
	}
}

func (rt *Router) exportReviewQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	data, err := rt.exporter.ExportReviewQueueXLSX(r.Context(), rt.cfg.ReviewExportLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="review_queue.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (rt *Router) recordUpload(format, status string, sizeBytes int64) {
	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, format, status, sizeBytes)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
