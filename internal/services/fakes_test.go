package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/providers/embedding"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

func quietLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

func textMessage(id, session string, fragments ...string) *models.Message {
	m := &models.Message{MessageUUID: id, SessionUUID: session}
	for _, f := range fragments {
		m.Contents = append(m.Contents, models.MessageContent{MessageUUID: id, ContentType: models.ContentText, Text: strPtr(f)})
	}
	return m
}

type fakeMessages struct{ byID map[string]*models.Message }

func (f *fakeMessages) GetByUUID(_ context.Context, id string) (*models.Message, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, utils.ErrNotFound
}

type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]*models.Session
	err  error
}

func (f *fakeSessions) GetBySessionUUID(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) AssignDepartmentIfUnset(_ context.Context, id string, dept int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	s, ok := f.byID[id]
	if !ok || s.AssignedDepartmentID != nil {
		return false, nil
	}
	s.AssignedDepartmentID = &dept
	return true, nil
}

func (f *fakeSessions) assigned(id string) *int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].AssignedDepartmentID
}

type fakeOperators struct {
	byDept map[int64][]int64
	err    error
}

func (f *fakeOperators) TelegramChatIDs(_ context.Context, dept int64) ([]int64, error) {
	return f.byDept[dept], f.err
}

type fakeDepartments struct {
	mu    sync.Mutex
	byID  map[int64]*models.Department
	err   error
	calls int
}

func (f *fakeDepartments) Get(_ context.Context, id int64) (*models.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, utils.E(utils.CodeInternal, "fake", "boom", f.err)
	}
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, utils.E(utils.CodeNotFound, "fake", "department not found", utils.ErrNotFound)
}

func (f *fakeDepartments) GetLive(ctx context.Context, id int64) (*models.Department, error) {
	return f.Get(ctx, id)
}

func (f *fakeDepartments) ListIndexable(_ context.Context) ([]models.Department, error) {
	var out []models.Department
	for _, d := range f.byID {
		if d.Live() {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeAnalyses struct {
	mu       sync.Mutex
	verdicts []models.InjectResult
	records  []models.AIResult
	err      error
}

func (f *fakeAnalyses) InsertInjectResult(_ context.Context, row *models.InjectResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.verdicts = append(f.verdicts, *row)
	return nil
}

func (f *fakeAnalyses) InsertAIResult(_ context.Context, row *models.AIResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *row)
	return nil
}

func (f *fakeAnalyses) ListAIResults(_ context.Context, id string) ([]models.AIResult, error) {
	var out []models.AIResult
	for _, r := range f.records {
		if r.MessageUUID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAnalyses) ListInjectResults(_ context.Context, id string) ([]models.InjectResult, error) {
	var out []models.InjectResult
	for _, r := range f.verdicts {
		if r.MessageUUID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type delivery struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []delivery
	failOn map[int64]bool
}

func (f *fakeNotifier) Deliver(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[chatID] {
		return errors.New("chat not found")
	}
	f.sent = append(f.sent, delivery{chatID: chatID, text: text})
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []DepartmentEvent
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, ev DepartmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

type fakeEmbedder struct {
	texts []string
	vec   []float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) []float32 {
	f.texts = append(f.texts, text)
	if f.vec != nil {
		return f.vec
	}
	v := make([]float32, embedding.Dimensions)
	v[0] = 1
	return v
}

type searchCall struct {
	vector []float32
	lang   analysis.Language
}

type fakeFinder struct {
	calls      []searchCall
	candidates []analysis.Candidate
}

func (f *fakeFinder) SearchWithFallback(_ context.Context, v []float32, lang analysis.Language) []analysis.Candidate {
	f.calls = append(f.calls, searchCall{vector: v, lang: lang})
	return f.candidates
}

type fakeReasoner struct {
	reqs []analysis.ClassifyRequest
	out  analysis.Classification
}

func (f *fakeReasoner) Classify(_ context.Context, req analysis.ClassifyRequest) analysis.Classification {
	f.reqs = append(f.reqs, req)
	return f.out
}

type routeCall struct {
	dept int64
	msg  string
}

type fakeRouter struct {
	calls []routeCall
	err   error
}

func (f *fakeRouter) Route(_ context.Context, dept int64, msg string) (*RouteResult, error) {
	f.calls = append(f.calls, routeCall{dept: dept, msg: msg})
	if f.err != nil {
		return nil, f.err
	}
	return &RouteResult{DepartmentID: dept, Assigned: true}, nil
}

func (f *fakeRouter) Precheck(context.Context, string, string) (bool, error) { return false, nil }

type fakeIndex struct {
	existing map[string]struct{}
	upserted []analysis.IndexEntry
	batches  int
	failFor  map[int64]bool
}

func (f *fakeIndex) Query(context.Context, []float32, string, int) ([]analysis.Hit, error) {
	return nil, nil
}

func (f *fakeIndex) Upsert(_ context.Context, entries []analysis.IndexEntry) error {
	f.batches++
	for _, e := range entries {
		if f.failFor[e.DepartmentID] {
			return errors.New("connection reset")
		}
	}
	f.upserted = append(f.upserted, entries...)
	return nil
}

func (f *fakeIndex) ExistingIDs(context.Context) (map[string]struct{}, error) {
	if f.existing == nil {
		return map[string]struct{}{}, nil
	}
	return f.existing, nil
}
