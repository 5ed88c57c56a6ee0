// Package analysis holds the classification stages of the routing pipeline:
// security screening, language detection, resilient embedding, candidate
// search and the reasoning pass. Every stage degrades instead of failing.
package analysis

import "context"

type Language string

const (
	LangUz          Language = "uz"
	LangRu          Language = "ru"
	LangUnsupported Language = "unsupported"
)

func (l Language) Supported() bool { return l == LangUz || l == LangRu }

// Candidate is a department surfaced by vector search.
type Candidate struct {
	DepartmentID int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Score        float64 `json:"score"`
}

// Hit is a raw vector index match.
type Hit struct {
	ID           string
	DepartmentID int64
	Name         string
	Description  string
	Lang         string
	Score        float64
}

// IndexEntry is one (department, language) document written to the index.
type IndexEntry struct {
	ID           string
	DepartmentID int64
	Lang         string
	Name         string
	Description  string
	Keywords     string
	Vector       []float32
}

// VectorIndex is the vector store boundary. An empty lang means no language filter.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, lang string, limit int) ([]Hit, error)
	Upsert(ctx context.Context, entries []IndexEntry) error
	ExistingIDs(ctx context.Context) (map[string]struct{}, error)
}

// Embedder always returns a vector of embedding.Dimensions.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Reasoner always returns a Classification; failures yield an empty one.
type Reasoner interface {
	Classify(ctx context.Context, req ClassifyRequest) Classification
}

type ClassifyRequest struct {
	MessageID  string
	Text       string
	Candidates []Candidate
}

// Classification is the reasoning model's routing judgment. Absent fields are nil.
type Classification struct {
	MessageType             *string  `json:"message_type"`
	Confidence              *float64 `json:"routing_confidence"`
	SuggestedDepartmentName *string  `json:"suggested_department_name"`
	SuggestedDepartmentID   *int64   `json:"suggested_department_id"`
	Reason                  *string  `json:"reason"`
	Explanation             *string  `json:"explanation"`
}

// Empty reports whether the reasoner produced nothing usable.
func (c Classification) Empty() bool {
	return c.MessageType == nil && c.Confidence == nil && c.SuggestedDepartmentName == nil &&
		c.SuggestedDepartmentID == nil && c.Reason == nil && c.Explanation == nil
}
