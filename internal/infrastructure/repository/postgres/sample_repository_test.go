package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

func newSampleRepoWithMock(t *testing.T) (*SampleRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &SampleRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestListSamplesDecodesEmbeddings(t *testing.T) {
	repo, mock, done := newSampleRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{"label", "doc_type", "embedding"}).
		AddRow("bol-clean", "bill_of_lading", []byte(`[0.1,0.2]`)).
		AddRow("pod-signed", "proof_of_delivery", []byte(`[0.3,0.4]`))

	mock.ExpectQuery("SELECT label, doc_type, embedding").WillReturnRows(rows)

	samples, err := repo.ListSamples(context.Background())
	if err != nil {
		t.Fatalf("ListSamples() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}
	if samples[0].Type != domain.DocTypeBillOfLading || len(samples[0].Embedding) != 2 {
		t.Fatalf("unexpected sample: %+v", samples[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveSamplesUpsertsInOneTransaction(t *testing.T) {
	repo, mock, done := newSampleRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reference_samples").
		WithArgs("bol-clean", "bill_of_lading", []byte(`[0.1,0.2]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveSamples(context.Background(), []ports.ReferenceSample{
		{Label: "bol-clean", Type: domain.DocTypeBillOfLading, Embedding: []float32{0.1, 0.2}},
	})
	if err != nil {
		t.Fatalf("SaveSamples() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
