package samples

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// SampleStore persists labeled reference embeddings between restarts so the
// seed texts are embedded once, not on every boot.
type SampleStore interface {
	ListSamples(ctx context.Context) ([]ports.ReferenceSample, error)
	SaveSamples(ctx context.Context, samples []ports.ReferenceSample) error
}

// Library is the in-memory reference-sample set served to the classifier.
// It is built once at startup and read-only afterwards, so lookups need no
// locking.
type Library struct {
	byType map[domain.DocType][]ports.ReferenceSample
	all    []ports.ReferenceSample
}

func NewLibrary(samples []ports.ReferenceSample) *Library {
	lib := &Library{byType: make(map[domain.DocType][]ports.ReferenceSample)}
	for _, s := range samples {
		lib.byType[s.Type] = append(lib.byType[s.Type], s)
		lib.all = append(lib.all, s)
	}
	return lib
}

func (l *Library) SamplesFor(t domain.DocType) []ports.ReferenceSample {
	return l.byType[t]
}

func (l *Library) All() []ports.ReferenceSample {
	return l.all
}

// Build assembles the library from the store, falling back to embedding the
// seed manifest when the store is empty. Freshly embedded seeds are written
// back so the next boot skips the embedding pass.
func Build(ctx context.Context, store SampleStore, embedder ports.Embedder, seeds []SeedSample, logger *slog.Logger) (*Library, error) {
	stored, err := store.ListSamples(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored samples: %w", err)
	}
	if len(stored) > 0 {
		logger.Info("sample library loaded from store", "samples", len(stored))
		return NewLibrary(stored), nil
	}

	embedded, err := embedSeeds(ctx, embedder, seeds)
	if err != nil {
		return nil, err
	}
	if err := store.SaveSamples(ctx, embedded); err != nil {
		return nil, fmt.Errorf("persist seed samples: %w", err)
	}
	logger.Info("sample library seeded", "samples", len(embedded))
	return NewLibrary(embedded), nil
}

func embedSeeds(ctx context.Context, embedder ports.Embedder, seeds []SeedSample) ([]ports.ReferenceSample, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seed samples to embed")
	}

	texts := make([]string, len(seeds))
	for i, s := range seeds {
		texts[i] = s.Text
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed seed samples: %w", err)
	}
	if len(vectors) != len(seeds) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d seeds", len(vectors), len(seeds))
	}

	out := make([]ports.ReferenceSample, len(seeds))
	for i, s := range seeds {
		out[i] = ports.ReferenceSample{
			Label:     s.Label,
			Type:      domain.DocType(s.Type),
			Embedding: vectors[i],
		}
	}
	return out, nil
}
