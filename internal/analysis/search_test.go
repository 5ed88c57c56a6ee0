package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexCall struct {
	vector []float32
	lang   string
	limit  int
}

type fakeIndex struct {
	byLang map[string][]Hit
	err    error
	calls  []indexCall
}

func (f *fakeIndex) Query(_ context.Context, vector []float32, lang string, limit int) ([]Hit, error) {
	f.calls = append(f.calls, indexCall{vector: vector, lang: lang, limit: limit})
	if f.err != nil {
		return nil, f.err
	}
	return f.byLang[lang], nil
}

func (f *fakeIndex) Upsert(context.Context, []IndexEntry) error { return nil }

func (f *fakeIndex) ExistingIDs(context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func TestSearchFilteredHit(t *testing.T) {
	idx := &fakeIndex{byLang: map[string][]Hit{
		"uz": {
			{DepartmentID: 2, Name: "Kommunal", Score: 0.61},
			{DepartmentID: 1, Name: "Yo'l", Score: 0.83},
		},
	}}
	s := NewCandidateSearch(idx, 0, quietLogger())

	got := s.SearchWithFallback(context.Background(), unitVector(), LangUz)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].DepartmentID)
	assert.Equal(t, 0.83, TopScore(got))
	require.Len(t, idx.calls, 1)
	assert.Equal(t, "uz", idx.calls[0].lang)
	assert.Equal(t, DefaultTopK, idx.calls[0].limit)
}

func TestSearchFallsBackExactlyOnce(t *testing.T) {
	idx := &fakeIndex{byLang: map[string][]Hit{
		"": {{DepartmentID: 7, Name: "Water", Score: 0.4}},
	}}
	s := NewCandidateSearch(idx, 3, quietLogger())
	vec := unitVector()

	got := s.SearchWithFallback(context.Background(), vec, LangRu)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].DepartmentID)

	require.Len(t, idx.calls, 2)
	assert.Equal(t, "ru", idx.calls[0].lang)
	assert.Equal(t, "", idx.calls[1].lang)
	assert.Equal(t, idx.calls[0].vector, idx.calls[1].vector)
	assert.Equal(t, 3, idx.calls[1].limit)
}

func TestSearchNoFallbackResults(t *testing.T) {
	idx := &fakeIndex{}
	s := NewCandidateSearch(idx, 3, quietLogger())

	got := s.SearchWithFallback(context.Background(), unitVector(), LangUz)
	assert.Empty(t, got)
	assert.Len(t, idx.calls, 2)
	assert.Equal(t, 0.0, TopScore(got))
}

func TestSearchErrorDegradesToEmpty(t *testing.T) {
	idx := &fakeIndex{err: errors.New("connection refused")}
	s := NewCandidateSearch(idx, 3, quietLogger())

	assert.Empty(t, s.Search(context.Background(), unitVector(), "uz"))
	assert.Empty(t, s.SearchWithFallback(context.Background(), unitVector(), LangUz))
}

func TestSearchTruncatesToTopK(t *testing.T) {
	idx := &fakeIndex{byLang: map[string][]Hit{
		"uz": {
			{DepartmentID: 1, Score: 0.1},
			{DepartmentID: 2, Score: 0.9},
			{DepartmentID: 3, Score: 0.5},
			{DepartmentID: 4, Score: 0.7},
		},
	}}
	s := NewCandidateSearch(idx, 3, quietLogger())

	got := s.Search(context.Background(), unitVector(), "uz")
	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 4, 3}, []int64{got[0].DepartmentID, got[1].DepartmentID, got[2].DepartmentID})
}
