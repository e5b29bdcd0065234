package config

import "testing"

func TestLoadIncludesPipelineDefaults(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_REQUESTS_PER_MINUTE", "")
	t.Setenv("NATS_UPLOAD_SUBJECT", "")
	t.Setenv("TESSERACT_LANGUAGES", "")
	t.Setenv("RETRY_MAX_ATTEMPTS", "")

	cfg := Load()
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("expected default gemini model, got %q", cfg.GeminiModel)
	}
	if cfg.GeminiRequestsPerMin != 60 {
		t.Fatalf("expected default 60 rpm, got %d", cfg.GeminiRequestsPerMin)
	}
	if cfg.NATSUploadSubject != "documents.uploaded" {
		t.Fatalf("expected default upload subject, got %q", cfg.NATSUploadSubject)
	}
	if cfg.TesseractLanguages != "eng" {
		t.Fatalf("expected default ocr language eng, got %q", cfg.TesseractLanguages)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Fatalf("expected default 3 retry attempts, got %d", cfg.RetryMaxAttempts)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("GEMINI_REQUESTS_PER_MINUTE", "15")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("BREAKER_ENABLED", "false")
	t.Setenv("REVIEW_EXPORT_LIMIT", "50")

	cfg := Load()
	if cfg.GeminiRequestsPerMin != 15 {
		t.Fatalf("expected 15 rpm override, got %d", cfg.GeminiRequestsPerMin)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected 2.5 rps override, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.BreakerEnabled {
		t.Fatal("expected breaker disabled")
	}
	if cfg.ReviewExportLimit != 50 {
		t.Fatalf("expected export limit 50, got %d", cfg.ReviewExportLimit)
	}
}

func TestLoadFallsBackOnUnparseableValues(t *testing.T) {
	t.Setenv("GEMINI_REQUESTS_PER_MINUTE", "not-a-number")
	t.Setenv("API_RATE_LIMIT_RPS", "nope")

	cfg := Load()
	if cfg.GeminiRequestsPerMin != 60 {
		t.Fatalf("expected fallback to 60 rpm, got %d", cfg.GeminiRequestsPerMin)
	}
	if cfg.APIRateLimitRPS != 0 {
		t.Fatalf("expected fallback to 0 rps, got %v", cfg.APIRateLimitRPS)
	}
}
