package classify

import (
	"context"
	"fmt"
	"math"

	"github.com/haulbase/freightdocs/internal/core/domain"
	"github.com/haulbase/freightdocs/internal/core/ports"
)

// Per-type aggregation weights. One excellent sample match outweighs many
// mediocre ones.
const (
	bestSampleWeight = 0.6
	restMeanWeight   = 0.4
)

// EmbeddingSignal scores the document against the labeled reference-sample
// library by cosine similarity in embedding space.
type EmbeddingSignal struct {
	embedder ports.Embedder
	library  ports.SampleLibrary
}

func NewEmbeddingSignal(embedder ports.Embedder, library ports.SampleLibrary) *EmbeddingSignal {
	return &EmbeddingSignal{embedder: embedder, library: library}
}

func (s *EmbeddingSignal) Name() string { return domain.SignalEmbedding }

func (s *EmbeddingSignal) Score(ctx context.Context, _ domain.RunInput, text string) (domain.ClassificationVote, error) {
	if text == "" {
		return domain.ClassificationVote{
			Signal:    domain.SignalEmbedding,
			Predicted: domain.DocTypeUnknown,
			Rationale: "no text to embed",
		}, nil
	}

	query, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return domain.ClassificationVote{}, fmt.Errorf("embed document text: %w", err)
	}

	scores := make(map[domain.DocType]float64)
	var best domain.DocType
	bestScore := 0.0

	for _, docType := range domain.KnownDocTypes {
		samples := s.library.SamplesFor(docType)
		if len(samples) == 0 {
			continue
		}
		score := aggregateSimilarity(query, samples)
		scores[docType] = score
		if score > bestScore {
			best, bestScore = docType, score
		}
	}

	if len(scores) == 0 {
		return domain.ClassificationVote{
			Signal:    domain.SignalEmbedding,
			Predicted: domain.DocTypeUnknown,
			Rationale: "reference sample library is empty",
		}, nil
	}

	return domain.ClassificationVote{
		Signal:     domain.SignalEmbedding,
		Predicted:  best,
		Confidence: bestScore,
		Scores:     scores,
		Rationale:  fmt.Sprintf("closest reference samples are labeled %s", best),
	}, nil
}

// aggregateSimilarity folds per-sample similarities into one type score:
// the best single sample dominates, the remaining same-type samples temper it.
func aggregateSimilarity(query []float32, samples []ports.ReferenceSample) float64 {
	sims := make([]float64, 0, len(samples))
	for _, sample := range samples {
		sims = append(sims, normalizedCosine(query, sample.Embedding))
	}

	best, bestIdx := 0.0, 0
	for i, sim := range sims {
		if sim > best {
			best, bestIdx = sim, i
		}
	}
	if len(sims) == 1 {
		return best
	}

	rest := 0.0
	for i, sim := range sims {
		if i != bestIdx {
			rest += sim
		}
	}
	restMean := rest / float64(len(sims)-1)
	return bestSampleWeight*best + restMeanWeight*restMean
}

// normalizedCosine maps cosine similarity from [-1,1] into [0,1].
func normalizedCosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}
