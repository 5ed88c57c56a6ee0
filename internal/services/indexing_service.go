package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Natenyt/AI-Powered-Government-System/internal/analysis"
	"github.com/Natenyt/AI-Powered-Government-System/internal/models"
	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

var indexLanguages = []analysis.Language{analysis.LangUz, analysis.LangRu}

type IndexReport struct {
	Departments int `json:"departments"`
	Indexed     int `json:"indexed"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
}

type IndexingService interface {
	// IndexDepartments embeds every live department per language. Entries
	// already in the index are skipped unless reindex is set. Entries are
	// written one department at a time, so a failed write loses only that
	// department's vectors and a later run resumes from there.
	IndexDepartments(ctx context.Context, reindex bool) (*IndexReport, error)
}

type indexingService struct {
	departments DepartmentService
	embedder    analysis.Embedder
	index       analysis.VectorIndex
	logger      *logrus.Logger
}

func NewIndexingService(departments DepartmentService, embedder analysis.Embedder, index analysis.VectorIndex, l *logrus.Logger) IndexingService {
	if l == nil {
		l = logrus.New()
	}
	return &indexingService{departments: departments, embedder: embedder, index: index, logger: l}
}

// IndexEntryID is the stable vector index id of a (department, language) pair.
func IndexEntryID(departmentID int64, lang analysis.Language) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(fmt.Sprintf("%d_%s", departmentID, lang))).String()
}

// IndexText is the text embedded for one department language.
func IndexText(name, description string, keywords []string) string {
	text := name + ". " + description
	if len(keywords) > 0 {
		text += " Keywords: " + strings.Join(keywords, ", ")
	}
	return text
}

func (s *indexingService) IndexDepartments(ctx context.Context, reindex bool) (*IndexReport, error) {
	const op = "IndexingService.IndexDepartments"

	depts, err := s.departments.ListIndexable(ctx)
	if err != nil {
		return nil, err
	}

	existing := map[string]struct{}{}
	if !reindex {
		existing, err = s.index.ExistingIDs(ctx)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to list indexed entries", err)
		}
		s.logger.WithField("existing", len(existing)).Info("resuming department indexing")
	}

	report := &IndexReport{Departments: len(depts)}
	var lastErr error
	for i := range depts {
		d := &depts[i]
		var batch []analysis.IndexEntry
		for _, lang := range indexLanguages {
			entry, ok := s.prepare(ctx, d, lang, existing, report)
			if ok {
				batch = append(batch, entry)
			}
		}
		if len(batch) == 0 {
			continue
		}
		if err := s.index.Upsert(ctx, batch); err != nil {
			report.Failed += len(batch)
			lastErr = err
			s.logger.WithError(err).WithField("department_id", d.ID).Error("index upsert failed")
			continue
		}
		report.Indexed += len(batch)
	}

	if lastErr != nil && report.Indexed == 0 {
		return report, utils.E(utils.CodeInternal, op, "failed to upsert index entries", lastErr)
	}

	s.logger.WithFields(logrus.Fields{
		"departments": report.Departments,
		"indexed":     report.Indexed,
		"skipped":     report.Skipped,
		"failed":      report.Failed,
	}).Info("department indexing finished")
	return report, nil
}

func (s *indexingService) prepare(ctx context.Context, d *models.Department, lang analysis.Language, existing map[string]struct{}, report *IndexReport) (analysis.IndexEntry, bool) {
	name, description, keywords := d.Localized(string(lang))
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if name == "" && description == "" {
		return analysis.IndexEntry{}, false
	}

	id := IndexEntryID(d.ID, lang)
	if _, ok := existing[id]; ok {
		report.Skipped++
		return analysis.IndexEntry{}, false
	}

	vec := s.embedder.Embed(ctx, IndexText(name, description, keywords))
	if analysis.IsZero(vec) {
		report.Failed++
		s.logger.WithFields(logrus.Fields{"department_id": d.ID, "lang": lang}).Error("embedding failed, department not indexed")
		return analysis.IndexEntry{}, false
	}

	return analysis.IndexEntry{
		ID:           id,
		DepartmentID: d.ID,
		Lang:         string(lang),
		Name:         name,
		Description:  description,
		Keywords:     strings.Join(keywords, ", "),
		Vector:       vec,
	}, true
}
