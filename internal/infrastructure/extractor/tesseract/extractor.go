package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// Data with no text layer and no recognizable glyphs still yields an empty
// string; confidence is what tells the caller how much to trust it.
const pdfTextLayerConfidence = 0.95

// Extractor is the local text provider. PDFs are read through their text
// layer; raster captures go through tesseract.
type Extractor struct {
	clientFactory func() *gosseract.Client
	languages     []string
	logger        *slog.Logger
}

func NewExtractor(languages []string, logger *slog.Logger) *Extractor {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Extractor{
		clientFactory: gosseract.NewClient,
		languages:     languages,
		logger:        logger,
	}
}

func (e *Extractor) Name() string { return domain.ProviderLocalOCR }

func (e *Extractor) Extract(ctx context.Context, in domain.RunInput) (domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExtractionResult{}, err
	}

	var (
		text       string
		confidence float64
		err        error
	)
	if domain.IsPageDescriptionFormat(in.Format) {
		text, confidence, err = e.pdfTextLayer(in.Data)
	} else {
		text, confidence, err = e.recognize(in.Data)
	}
	if err != nil {
		return domain.ExtractionResult{}, &domain.ExtractionError{
			Provider: domain.ProviderLocalOCR,
			Attempts: 1,
			Err:      err,
		}
	}

	e.logger.Debug("local_text_extracted",
		"document_id", in.DocumentID,
		"chars", len(text),
		"confidence", confidence)
	return domain.ExtractionResult{
		Provider:   domain.ProviderLocalOCR,
		Text:       text,
		Confidence: confidence,
	}, nil
}

func (e *Extractor) pdfTextLayer(data []byte) (string, float64, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("read pdf text layer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, fmt.Errorf("read pdf text layer: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", 0, errors.New("pdf has no extractable text layer")
	}
	return text, pdfTextLayerConfidence, nil
}

func (e *Extractor) recognize(data []byte) (string, float64, error) {
	client := e.clientFactory()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", 0, fmt.Errorf("set ocr languages: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", 0, fmt.Errorf("set ocr image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), wordConfidence(client), nil
}

// wordConfidence averages tesseract's per-word confidences into [0,1]. A page
// without recognized words reads as zero confidence, not as an error.
func wordConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
