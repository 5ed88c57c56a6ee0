package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/internal/metrics"
)

const DefaultTopK = 3

// CandidateSearch ranks departments for a message vector.
type CandidateSearch struct {
	Index  VectorIndex
	TopK   int
	Logger *logrus.Logger
}

func NewCandidateSearch(idx VectorIndex, topK int, l *logrus.Logger) *CandidateSearch {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if l == nil {
		l = logrus.New()
	}
	return &CandidateSearch{Index: idx, TopK: topK, Logger: l}
}

// Search runs one query. An empty lang disables the language filter.
// Index errors degrade to no candidates.
func (s *CandidateSearch) Search(ctx context.Context, vector []float32, lang string) []Candidate {
	hits, err := s.Index.Query(ctx, vector, lang, s.TopK)
	if err != nil {
		s.Logger.WithError(err).WithField("lang", lang).Error("vector search failed")
		return nil
	}

	out := make([]Candidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, Candidate{
			DepartmentID: h.DepartmentID,
			Name:         h.Name,
			Description:  h.Description,
			Score:        h.Score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > s.TopK {
		out = out[:s.TopK]
	}
	return out
}

// SearchWithFallback searches within lang first and, only when that yields
// nothing, once more without a language filter.
func (s *CandidateSearch) SearchWithFallback(ctx context.Context, vector []float32, lang Language) []Candidate {
	defer metrics.ObserveStage("search", time.Now())

	candidates := s.Search(ctx, vector, string(lang))
	if len(candidates) > 0 {
		return candidates
	}

	s.Logger.WithField("lang", lang).Info("no candidates with language filter, retrying unfiltered")
	metrics.SearchFallbacks.Inc()
	return s.Search(ctx, vector, "")
}

// TopScore is the similarity of the best candidate, or 0 when there is none.
func TopScore(candidates []Candidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	return candidates[0].Score
}
