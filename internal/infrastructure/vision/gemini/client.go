package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/infrastructure/resilience"
)

// Client is the vision-AI capability. It serves both as the second text
// provider and as the analyzer behind classification, signature detection and
// re-capture feedback.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	exec       *resilience.Executor
	attempts   int
	logger     *slog.Logger
}

type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestTimeout    time.Duration
	RequestsPerMinute int
	Resilience        resilience.Config
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	rcfg := cfg.Resilience
	exec := resilience.NewExecutor(rcfg)
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
		exec:       exec,
		attempts:   resilienceAttempts(rcfg),
		logger:     logger,
	}
}

func resilienceAttempts(cfg resilience.Config) int {
	if cfg.RetryMaxAttempts > 0 {
		return cfg.RetryMaxAttempts
	}
	return resilience.DefaultConfig().RetryMaxAttempts
}

func (c *Client) Name() string { return domain.ProviderVision }

// Extract reads the document with the vision model and returns text plus any
// structured hints it volunteered.
func (c *Client) Extract(ctx context.Context, in domain.RunInput) (domain.ExtractionResult, error) {
	var parsed struct {
		Text       string            `json:"text"`
		Confidence float64           `json:"confidence"`
		FieldHints map[string]string `json:"field_hints"`
		Signatures []struct {
			Location   string  `json:"location"`
			Signer     string  `json:"signer"`
			Type       string  `json:"type"`
			Confidence float64 `json:"confidence"`
		} `json:"signatures"`
	}
	if err := c.generateJSON(ctx, "extract", buildExtractionPrompt(), in, &parsed); err != nil {
		return domain.ExtractionResult{}, &domain.ExtractionError{
			Provider: domain.ProviderVision,
			Attempts: c.attempts,
			Err:      err,
		}
	}

	result := domain.ExtractionResult{
		Provider:   domain.ProviderVision,
		Text:       strings.TrimSpace(parsed.Text),
		Confidence: clamp01(parsed.Confidence),
		FieldHints: parsed.FieldHints,
	}
	if len(parsed.Signatures) > 0 {
		info := &domain.SignatureInfo{State: domain.SignatureEvaluated, Count: len(parsed.Signatures)}
		for _, s := range parsed.Signatures {
			info.Signatures = append(info.Signatures, domain.Signature{
				Location:   s.Location,
				Signer:     s.Signer,
				Kind:       s.Type,
				Confidence: clamp01(s.Confidence),
			})
		}
		result.Signatures = info
	}
	return result, nil
}

// Classify asks the model for a single best type with confidence and
// rationale.
func (c *Client) Classify(ctx context.Context, in domain.RunInput, text string) (domain.ClassificationVote, error) {
	var parsed struct {
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
		Rationale  string  `json:"rationale"`
	}
	if err := c.generateJSON(ctx, "classify", buildClassificationPrompt(text), in, &parsed); err != nil {
		return domain.ClassificationVote{}, err
	}

	predicted := domain.DocType(strings.TrimSpace(parsed.Type))
	if !knownType(predicted) {
		predicted = domain.DocTypeUnknown
	}
	return domain.ClassificationVote{
		Signal:     domain.SignalVision,
		Predicted:  predicted,
		Confidence: clamp01(parsed.Confidence),
		Rationale:  parsed.Rationale,
	}, nil
}

func (c *Client) DetectSignatures(ctx context.Context, in domain.RunInput) (domain.SignatureInfo, error) {
	var parsed struct {
		Signatures []struct {
			Location   string  `json:"location"`
			Signer     string  `json:"signer"`
			Type       string  `json:"type"`
			Confidence float64 `json:"confidence"`
		} `json:"signatures"`
	}
	if err := c.generateJSON(ctx, "detect_signatures", buildSignaturePrompt(), in, &parsed); err != nil {
		return domain.SignatureInfo{}, err
	}

	info := domain.SignatureInfo{
		State: domain.SignatureEvaluated,
		Count: len(parsed.Signatures),
	}
	for _, s := range parsed.Signatures {
		info.Signatures = append(info.Signatures, domain.Signature{
			Location:   s.Location,
			Signer:     s.Signer,
			Kind:       s.Type,
			Confidence: clamp01(s.Confidence),
		})
	}
	return info, nil
}

func (c *Client) QualityFeedback(ctx context.Context, in domain.RunInput, report domain.QualityReport) (domain.QualityFeedback, error) {
	var parsed struct {
		Issues      []string `json:"issues"`
		Suggestions []string `json:"suggestions"`
	}
	if err := c.generateJSON(ctx, "quality_feedback", buildFeedbackPrompt(report), in, &parsed); err != nil {
		return domain.QualityFeedback{}, err
	}
	return domain.QualityFeedback{
		Issues:      parsed.Issues,
		Suggestions: parsed.Suggestions,
	}, nil
}

// generateJSON runs one rate-limited, retried model call and decodes the JSON
// object the model returns.
func (c *Client) generateJSON(ctx context.Context, operation, prompt string, in domain.RunInput, out any) error {
	err := c.exec.Execute(ctx, operation, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		raw, err := c.postGenerate(ctx, operation, prompt, in)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(extractJSONObject(raw)), out); err != nil {
			return fmt.Errorf("parse %s json: %w", operation, err)
		}
		return nil
	}, classifyVisionError)
	return wrapTemporaryIfNeeded(operation, err)
}

func knownType(t domain.DocType) bool {
	for _, k := range domain.KnownDocTypes {
		if t == k {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
