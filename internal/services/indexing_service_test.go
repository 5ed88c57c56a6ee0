package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/embedding"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

func TestIndexEntryIDIsStable(t *testing.T) {
	want := uuid.NewSHA1(uuid.NameSpaceDNS, []byte("12_uz")).String()
	assert.Equal(t, want, IndexEntryID(12, analysis.LangUz))
	assert.NotEqual(t, IndexEntryID(12, analysis.LangUz), IndexEntryID(12, analysis.LangRu))
}

func TestIndexText(t *testing.T) {
	assert.Equal(t, "Suv. Ichimlik suvi Keywords: suv, quvur", IndexText("Suv", "Ichimlik suvi", []string{"suv", "quvur"}))
	assert.Equal(t, "Suv. ", IndexText("Suv", "", nil))
}

func TestIndexDepartments(t *testing.T) {
	depts := &fakeDepartments{byID: map[int64]*models.Department{
		1: {ID: 1, NameUz: "Kommunal", DescriptionUz: "Suv va gaz", KeywordsUz: pq.StringArray{"suv", "gaz"},
			NameRu: "Коммунальные", DescriptionRu: "Вода и газ", IsActive: true},
		2: {ID: 2, NameUz: "Yo'llar", IsActive: true},
		3: {ID: 3, NameUz: "Yopilgan", IsActive: false},
	}}
	idx := &fakeIndex{existing: map[string]struct{}{IndexEntryID(1, analysis.LangRu): {}}}
	emb := &fakeEmbedder{}

	svc := NewIndexingService(depts, emb, idx, quietLogger())
	report, err := svc.IndexDepartments(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Departments)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, emb.texts, 2)
	assert.Contains(t, emb.texts, "Kommunal. Suv va gaz Keywords: suv, gaz")

	byID := map[string]analysis.IndexEntry{}
	for _, e := range idx.upserted {
		byID[e.ID] = e
	}
	e, ok := byID[IndexEntryID(1, analysis.LangUz)]
	require.True(t, ok)
	assert.Equal(t, "uz", e.Lang)
	assert.Equal(t, "suv, gaz", e.Keywords)
	assert.Len(t, e.Vector, embedding.Dimensions)
}

func TestReindexIgnoresExisting(t *testing.T) {
	depts := &fakeDepartments{byID: map[int64]*models.Department{
		1: {ID: 1, NameUz: "Kommunal", NameRu: "Коммунальные", IsActive: true},
	}}
	idx := &fakeIndex{existing: map[string]struct{}{IndexEntryID(1, analysis.LangRu): {}}}

	report, err := NewIndexingService(depts, &fakeEmbedder{}, idx, quietLogger()).IndexDepartments(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
	assert.Zero(t, report.Skipped)
}

func TestIndexSkipsFailedEmbeddings(t *testing.T) {
	depts := &fakeDepartments{byID: map[int64]*models.Department{
		1: {ID: 1, NameUz: "Kommunal", IsActive: true},
	}}
	idx := &fakeIndex{}
	emb := &fakeEmbedder{vec: make([]float32, embedding.Dimensions)}

	report, err := NewIndexingService(depts, emb, idx, quietLogger()).IndexDepartments(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.Indexed)
	assert.Empty(t, idx.upserted)
}

func TestIndexUpsertFailureKeepsOtherDepartments(t *testing.T) {
	depts := &fakeDepartments{byID: map[int64]*models.Department{
		1: {ID: 1, NameUz: "Kommunal", NameRu: "Коммунальные", IsActive: true},
		2: {ID: 2, NameUz: "Yo'llar", IsActive: true},
	}}
	idx := &fakeIndex{failFor: map[int64]bool{1: true}}

	report, err := NewIndexingService(depts, &fakeEmbedder{}, idx, quietLogger()).IndexDepartments(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.batches)
	assert.Equal(t, 1, report.Indexed)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, idx.upserted, 1)
	assert.Equal(t, int64(2), idx.upserted[0].DepartmentID)
}

func TestIndexAllUpsertsFailing(t *testing.T) {
	depts := &fakeDepartments{byID: map[int64]*models.Department{
		1: {ID: 1, NameUz: "Kommunal", IsActive: true},
	}}
	idx := &fakeIndex{failFor: map[int64]bool{1: true}}

	report, err := NewIndexingService(depts, &fakeEmbedder{}, idx, quietLogger()).IndexDepartments(context.Background(), false)
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Failed)
}
