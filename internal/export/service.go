package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// Service produces XLSX worksheets for the back-office review queue.
type Service struct {
	outcomes ports.OutcomeStore
	logger   *slog.Logger
}

func NewService(outcomes ports.OutcomeStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outcomes: outcomes, logger: logger}
}

// ExportReviewQueueXLSX returns an XLSX workbook (as bytes) listing documents
// whose runs ended in needs_review, newest first.
func (s *Service) ExportReviewQueueXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	outcomes, err := s.outcomes.ListNeedingReview(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query review queue: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Review Queue"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document ID",
		"Document Type",
		"Classification Confidence",
		"Quality Score",
		"Quality Rejected",
		"Order Number",
		"Invoice Number",
		"Document Date",
		"Verdict Summary",
		"Processed At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, o := range outcomes {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, o.DocumentID)
		write(2, string(o.Classification.Type))
		write(3, fmt.Sprintf("%.2f", o.Classification.Confidence))
		write(4, fmt.Sprintf("%.1f", o.Quality.Composite))
		write(5, o.QualityRejected)
		write(6, fieldCell(o.OrderNumber))
		write(7, fieldCell(o.InvoiceNumber))
		write(8, fieldCell(o.DocumentDate))
		write(9, truncate(o.Verdict.Summary, 140))
		if !o.StartedAt.IsZero() {
			write(10, o.StartedAt.UTC().Format("2006-01-02 15:04"))
		} else {
			write(10, "")
		}

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // id
	_ = f.SetColWidth(sheet, "B", "B", 20) // type
	_ = f.SetColWidth(sheet, "C", "E", 14) // scores
	_ = f.SetColWidth(sheet, "F", "H", 18) // promoted fields
	_ = f.SetColWidth(sheet, "I", "I", 48) // summary
	_ = f.SetColWidth(sheet, "J", "J", 18) // date

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.review_queue.ok",
		"rows", len(outcomes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func fieldCell(v domain.FieldValue) string {
	if !v.Present() {
		return ""
	}
	return v.Value
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
