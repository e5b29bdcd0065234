package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// Pipeline runs one document through the full processing chain: strategy
// choice, quality gate, extraction, fusion, classification, conditional
// signature detection, field extraction and rule validation. Runs for
// different documents are independent; the pipeline itself holds no mutable
// state.
type Pipeline struct {
	agent    *StrategyAgent
	assessor ports.QualityAssessor
	local    ports.TextExtractor
	vision   ports.TextExtractor
	analyzer ports.VisionAnalyzer
	classify *Classifier
	fields   *FieldExtractor
	rules    *RuleEngine
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewPipeline(
	agent *StrategyAgent,
	assessor ports.QualityAssessor,
	local, vision ports.TextExtractor,
	analyzer ports.VisionAnalyzer,
	classifier *Classifier,
	fields *FieldExtractor,
	rules *RuleEngine,
	notifier ports.Notifier,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		agent:    agent,
		assessor: assessor,
		local:    local,
		vision:   vision,
		analyzer: analyzer,
		classify: classifier,
		fields:   fields,
		rules:    rules,
		notifier: notifier,
		logger:   logger,
	}
}

// Run processes one document end to end. It returns an error only for
// malformed input; every downstream problem is converted into a typed part
// of the outcome instead of aborting the run.
func (p *Pipeline) Run(ctx context.Context, in domain.RunInput) (*domain.ProcessingOutcome, error) {
	const op = "pipeline run"

	if err := in.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	strategy := p.agent.Decide(in.Meta(), nil)
	p.logger.Info("strategy_selected",
		"document_id", in.DocumentID,
		"strategy", strategy.Kind,
		"rationale", strategy.Rationale)

	quality, err := p.assessor.Assess(in)
	if err != nil {
		// An image the assessor cannot decode will not survive any later
		// stage either; treat it as bad input.
		return nil, domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("assess quality: %w", err))
	}

	if quality.Composite < domain.QualityGateThreshold {
		return p.rejectForQuality(ctx, in, strategy, quality, started), nil
	}

	fused := p.extractText(ctx, in, strategy)

	classification := p.classify.Classify(ctx, in, fused.Text)
	p.logger.Info("document_classified",
		"document_id", in.DocumentID,
		"type", classification.Type,
		"confidence", classification.Confidence,
		"needs_review", classification.NeedsReview)

	signatures := p.detectSignatures(ctx, in, classification.Type, fused)

	fields := p.fields.Extract(classification.Type, fused)
	order, invoice, date := p.fields.Promote(fields)

	outcome := domain.ProcessingOutcome{
		DocumentID:     in.DocumentID,
		Strategy:       strategy,
		Quality:        quality,
		Text:           fused,
		Classification: classification,
		Signatures:     signatures,
		Fields:         fields,
		OrderNumber:    order,
		InvoiceNumber:  invoice,
		DocumentDate:   date,
		StartedAt:      started,
	}
	outcome.Verdict = p.rules.Validate(&outcome)
	outcome.Elapsed = time.Since(started)

	p.logger.Info("pipeline_completed",
		"document_id", in.DocumentID,
		"verdict", outcome.Verdict.Status,
		"billing_ready", outcome.Verdict.BillingReady,
		"elapsed", outcome.Elapsed)
	return &outcome, nil
}

// rejectForQuality builds the terminal NeedsReview outcome for a document the
// gate stopped. All extraction stages are skipped; the uploader gets concrete
// re-capture guidance.
func (p *Pipeline) rejectForQuality(
	ctx context.Context,
	in domain.RunInput,
	strategy domain.ProcessingStrategy,
	quality domain.QualityReport,
	started time.Time,
) *domain.ProcessingOutcome {
	feedback, err := p.analyzer.QualityFeedback(ctx, in, quality)
	if err != nil {
		p.logger.Warn("quality_feedback_fallback", "document_id", in.DocumentID, "error", err)
		feedback = localFeedback(quality)
	}

	p.logger.Info("quality_gate_rejected",
		"document_id", in.DocumentID,
		"composite", quality.Composite,
		"readability", quality.Readability)

	if p.notifier != nil {
		fb := feedback
		go func() {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := p.notifier.Notify(nctx, in.DocumentID, fb); err != nil {
				p.logger.Warn("recapture_notify_failed", "document_id", in.DocumentID, "error", err)
			}
		}()
	}

	summary := fmt.Sprintf("image quality %.1f is below the minimum of %.0f; document needs re-capture",
		quality.Composite, domain.QualityGateThreshold)
	return &domain.ProcessingOutcome{
		DocumentID:      in.DocumentID,
		Strategy:        strategy,
		Quality:         quality,
		QualityRejected: true,
		Feedback:        &feedback,
		Verdict: domain.ValidationVerdict{
			Status:  domain.VerdictNeedsReview,
			Summary: summary,
		},
		StartedAt: started,
		Elapsed:   time.Since(started),
	}
}

// extractText runs the providers the strategy calls for and fuses whatever
// they produced. A provider failure degrades the run, it never aborts it.
func (p *Pipeline) extractText(ctx context.Context, in domain.RunInput, strategy domain.ProcessingStrategy) domain.FusedText {
	var (
		results  []domain.ExtractionResult
		degraded bool
	)

	collect := func(res domain.ExtractionResult, err error, provider string) {
		if err != nil {
			degraded = true
			p.logger.Warn("extraction_provider_failed",
				"document_id", in.DocumentID, "provider", provider, "error", err)
			return
		}
		results = append(results, res)
	}

	switch {
	case strategy.Kind == domain.StrategyDual:
		// The only stage allowed to issue both capability calls concurrently.
		type reply struct {
			res      domain.ExtractionResult
			err      error
			provider string
		}
		replies := make(chan reply, 2)
		for _, ex := range []ports.TextExtractor{p.local, p.vision} {
			go func(ex ports.TextExtractor) {
				res, err := ex.Extract(ctx, in)
				replies <- reply{res: res, err: err, provider: ex.Name()}
			}(ex)
		}
		for i := 0; i < 2; i++ {
			r := <-replies
			collect(r.res, r.err, r.provider)
		}

	case strategy.SecondPassDecides:
		res, err := p.local.Extract(ctx, in)
		collect(res, err, p.local.Name())
		if err != nil {
			// Without a local result there is nothing to optimize against.
			res, err = p.vision.Extract(ctx, in)
			collect(res, err, p.vision.Name())
			break
		}
		decision := p.agent.OptimizeSecondPass(res)
		p.logger.Info("second_pass_decided",
			"document_id", in.DocumentID,
			"skip_vision", decision.SkipVision,
			"reason", decision.Reason)
		if !decision.SkipVision {
			res, err = p.vision.Extract(ctx, in)
			collect(res, err, p.vision.Name())
		}

	default:
		if strategy.RunLocal {
			res, err := p.local.Extract(ctx, in)
			collect(res, err, p.local.Name())
		}
		if strategy.RunVision {
			res, err := p.vision.Extract(ctx, in)
			collect(res, err, p.vision.Name())
		}
	}

	fused := fuseResults(results)
	fused.Degraded = degraded
	return fused
}

// detectSignatures runs only for the one type that legally requires
// signatures. A vision hint gathered during extraction is reused instead of a
// second capability call.
func (p *Pipeline) detectSignatures(ctx context.Context, in domain.RunInput, docType domain.DocType, fused domain.FusedText) domain.SignatureInfo {
	if !docType.RequiresSignatures() {
		return domain.SignatureInfo{State: domain.SignatureNotRequired}
	}
	if fused.Signatures != nil && fused.Signatures.Evaluated() {
		return *fused.Signatures
	}

	info, err := p.analyzer.DetectSignatures(ctx, in)
	if err != nil {
		p.logger.Warn("signature_detection_failed", "document_id", in.DocumentID, "error", err)
		return domain.SignatureInfo{State: domain.SignatureCheckFailed, Error: err.Error()}
	}
	info.State = domain.SignatureEvaluated
	return info
}

// localFeedback derives re-capture guidance from the quality report alone,
// used when the vision capability cannot be reached.
func localFeedback(q domain.QualityReport) domain.QualityFeedback {
	var issues, suggestions []string
	if q.Blurry {
		issues = append(issues, fmt.Sprintf("image is blurry (blur score %.1f)", q.BlurScore))
		suggestions = append(suggestions, "hold the camera steady and tap to focus before capturing")
	}
	if q.Skewed {
		issues = append(issues, fmt.Sprintf("document is skewed by %.1f degrees", q.SkewDegrees))
		suggestions = append(suggestions, "lay the document flat and shoot straight down")
	}
	if q.BrightnessScore < 50 {
		issues = append(issues, "lighting is too dark or too bright")
		suggestions = append(suggestions, "capture in even, indirect light without shadows or glare")
	}
	if len(issues) == 0 {
		issues = append(issues, fmt.Sprintf("overall quality %.1f is too low to read reliably", q.Composite))
		suggestions = append(suggestions, "re-capture the document at a higher resolution")
	}
	return domain.QualityFeedback{Issues: issues, Suggestions: suggestions}
}
