package samples

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

type storeFake struct {
	stored  []ports.ReferenceSample
	listErr error
	saved   []ports.ReferenceSample
	saveErr error
}

func (f *storeFake) ListSamples(context.Context) ([]ports.ReferenceSample, error) {
	return f.stored, f.listErr
}

func (f *storeFake) SaveSamples(_ context.Context, samples []ports.ReferenceSample) error {
	f.saved = samples
	return f.saveErr
}

type embedderFake struct {
	calls int
	err   error
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0, 1}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSeeds() []SeedSample {
	return []SeedSample{
		{Label: "bol-clean", Type: "bill_of_lading", Text: "bill of lading shipper consignee"},
		{Label: "pod-signed", Type: "proof_of_delivery", Text: "proof of delivery received in good order"},
	}
}

func TestBuildPrefersStoredSamples(t *testing.T) {
	store := &storeFake{stored: []ports.ReferenceSample{
		{Label: "bol-clean", Type: domain.DocTypeBillOfLading, Embedding: []float32{1, 0}},
	}}
	embedder := &embedderFake{}

	lib, err := Build(context.Background(), store, embedder, testSeeds(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times, stored samples must short-circuit the seed pass", embedder.calls)
	}
	if got := lib.SamplesFor(domain.DocTypeBillOfLading); len(got) != 1 || got[0].Label != "bol-clean" {
		t.Errorf("SamplesFor(bill_of_lading) = %v", got)
	}
}

func TestBuildEmbedsSeedsWhenStoreEmpty(t *testing.T) {
	store := &storeFake{}
	embedder := &embedderFake{}

	lib, err := Build(context.Background(), store, embedder, testSeeds(), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if embedder.calls != 1 {
		t.Fatalf("embedder calls = %d, want one batch", embedder.calls)
	}
	if len(store.saved) != 2 {
		t.Fatalf("saved %d samples, want 2", len(store.saved))
	}
	if len(lib.All()) != 2 {
		t.Errorf("All() = %d samples, want 2", len(lib.All()))
	}
	if got := lib.SamplesFor(domain.DocTypeProofOfDelivery); len(got) != 1 || len(got[0].Embedding) != 2 {
		t.Errorf("SamplesFor(proof_of_delivery) = %v", got)
	}
}

func TestBuildSurfacesEmbedderFailure(t *testing.T) {
	store := &storeFake{}
	embedder := &embedderFake{err: errors.New("ollama unreachable")}

	if _, err := Build(context.Background(), store, embedder, testSeeds(), testLogger()); err == nil {
		t.Fatal("want error when seeds cannot be embedded")
	}
}

func TestParseManifest(t *testing.T) {
	data := []byte(`
samples:
  - label: bol-clean
    type: bill_of_lading
    text: "BILL OF LADING shipper consignee carrier"
  - label: lumper-receipt
    type: lumper_receipt
    text: "LUMPER RECEIPT unloading fee warehouse"
`)
	seeds, err := parseManifest(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(seeds) != 2 {
		t.Fatalf("parsed %d seeds, want 2", len(seeds))
	}
	if seeds[1].Type != "lumper_receipt" {
		t.Errorf("seeds[1].Type = %q", seeds[1].Type)
	}
}

func TestParseManifestRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown type", "samples:\n  - label: x\n    type: parking_ticket\n    text: y\n", "unknown type"},
		{"missing text", "samples:\n  - label: x\n    type: bill_of_lading\n", "no text"},
		{"empty manifest", "samples: []\n", "no samples"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseManifest([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
