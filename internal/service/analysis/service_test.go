package analysis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

type stubDocRepo struct {
	docs  []models.Document
	lists int
}

func (r *stubDocRepo) Append(context.Context, *models.Document) error { return nil }
func (r *stubDocRepo) Update(context.Context, *models.Document) error { return nil }
func (r *stubDocRepo) GetByID(context.Context, string) (*models.Document, error) {
	return nil, nil
}
func (r *stubDocRepo) List(context.Context) ([]models.Document, error) {
	r.lists++
	out := make([]models.Document, len(r.docs))
	copy(out, r.docs)
	return out, nil
}

type stubVersionRepo struct {
	versions map[string][]models.DocumentVersion
}

func (r *stubVersionRepo) Append(context.Context, *models.DocumentVersion) error { return nil }
func (r *stubVersionRepo) ListByDocument(context.Context, string) ([]models.DocumentVersion, error) {
	return nil, nil
}
func (r *stubVersionRepo) ListAll(context.Context) (map[string][]models.DocumentVersion, error) {
	return r.versions, nil
}

func TestServiceRunMemoizes(t *testing.T) {
	text := "Routine visit note dated 01/05/2024."
	at := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	docs := &stubDocRepo{docs: []models.Document{
		{ID: "doc-1", FileName: "note.pdf", TextContent: &text, UploadedAt: at, LastModified: at, CurrentVersion: 1, Category: models.CategoryPrimary},
	}}
	versions := &stubVersionRepo{versions: map[string][]models.DocumentVersion{}}

	svc := NewService(docs, versions, DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("unchanged corpus must return the cached result")
	}

	// Changing the corpus invalidates the cache.
	docs.docs[0].CurrentVersion = 2
	third, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("edited corpus must produce a fresh result")
	}
	if third.CorpusHash == first.CorpusHash {
		t.Error("edited corpus must hash differently")
	}
}

func TestAnalyzeCleanCorpus(t *testing.T) {
	text := "Routine visit note dated 01/05/2024."
	at := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	corpus := &Corpus{
		Documents: []models.Document{
			{ID: "doc-1", FileName: "note.pdf", TextContent: &text, UploadedAt: at, LastModified: at, CurrentVersion: 1},
		},
	}

	result, err := Analyze(context.Background(), corpus, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if result.DocumentCount != 1 {
		t.Errorf("document count = %d", result.DocumentCount)
	}
	if result.Risk.OverallRisk != models.RiskLow {
		t.Errorf("risk = %s, want LOW for a clean single-document corpus", result.Risk.OverallRisk)
	}
	if result.Risk.Summary != "no tampering indicators detected" {
		t.Errorf("summary = %q", result.Risk.Summary)
	}
	if result.CorpusHash == "" {
		t.Error("corpus hash must be populated")
	}
}
