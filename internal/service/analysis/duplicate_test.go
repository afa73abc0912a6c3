package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

func docWithFingerprint(id, fileName string, fp models.Fingerprint, text string) models.Document {
	d := models.Document{
		ID:          id,
		FileName:    fileName,
		Title:       fileName,
		Fingerprint: &fp,
	}
	if text != "" {
		d.TextContent = &text
	}
	return d
}

func TestClassifyTiers(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	f := NewFingerprinter(DefaultConfig())
	ts := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	baseData := []byte("report body bytes")
	baseText := "CPS report concerning the family, dated 01/05/2024. Findings were documented in detail."
	baseFp := f.Fingerprint("report.pdf", baseData, baseText, 3, ts)
	corpus := []models.Document{docWithFingerprint("doc-1", "report.pdf", baseFp, baseText)}

	tests := []struct {
		name       string
		fp         models.Fingerprint
		date       string
		wantType   models.MatchType
		wantConf   int
		wantIsDup  bool
		wantReview bool
	}{
		{
			name:      "exact hash match",
			fp:        f.Fingerprint("renamed.pdf", baseData, baseText, 3, ts),
			wantType:  models.MatchExact,
			wantConf:  100,
			wantIsDup: true,
		},
		{
			name:      "same name and size",
			fp:        f.Fingerprint("report.pdf", []byte("report body NYtes"), "different text entirely here", 3, ts),
			wantType:  models.MatchRename,
			wantConf:  95,
			wantIsDup: true,
		},
		{
			name:      "first page match with different bytes and name",
			fp:        f.Fingerprint("copy.pdf", []byte("other bytes longer"), baseText, 3, ts),
			wantType:  models.MatchContent,
			wantConf:  90,
			wantIsDup: true,
		},
		{
			name:      "no match",
			fp:        f.Fingerprint("unrelated.pdf", []byte("entirely unrelated bytes"), "completely different narrative about another matter altogether", 7, ts),
			wantType:  models.MatchNone,
			wantIsDup: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.fp, tt.date, corpus)
			if got.IsDuplicate != tt.wantIsDup {
				t.Fatalf("IsDuplicate = %v, want %v (reason: %s)", got.IsDuplicate, tt.wantIsDup, got.Reason)
			}
			if got.MatchType != tt.wantType {
				t.Errorf("MatchType = %s, want %s", got.MatchType, tt.wantType)
			}
			if tt.wantConf != 0 && got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %d, want %d", got.Confidence, tt.wantConf)
			}
		})
	}
}

func TestClassifyPartialPreview(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	f := NewFingerprinter(DefaultConfig())
	ts := time.Now()

	// Near-identical previews, one word swapped: similarity above 0.85
	// but bytes, name, size and first page all differ.
	words := strings.Fields(strings.Repeat("alpha beta gamma delta epsilon zeta eta theta iota kappa ", 2))
	orig := strings.Join(words, " ")
	edited := strings.Replace(orig, "kappa", "lambda", 1)

	fpOld := f.Fingerprint("old.pdf", []byte("old bytes"), orig, 2, ts)
	fpNew := f.Fingerprint("new.pdf", []byte("new bytes longer"), edited, 3, ts)
	corpus := []models.Document{docWithFingerprint("doc-1", "old.pdf", fpOld, orig)}

	got := c.Classify(fpNew, "", corpus)
	if !got.IsDuplicate || got.MatchType != models.MatchPartial {
		t.Fatalf("expected partial match, got %s (dup=%v)", got.MatchType, got.IsDuplicate)
	}
	if got.Confidence <= 85 || got.Confidence > 100 {
		t.Errorf("partial confidence = %d, want similarity percentage above threshold", got.Confidence)
	}
}

func TestClassifySizeAndPages(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	f := NewFingerprinter(DefaultConfig())
	ts := time.Now()

	data := []byte("0123456789")
	fpOld := f.Fingerprint("a.pdf", data, "", 6, ts)
	fpNew := f.Fingerprint("b.pdf", []byte("abcdefghij"), "", 6, ts)
	corpus := []models.Document{docWithFingerprint("doc-1", "a.pdf", fpOld, "")}

	got := c.Classify(fpNew, "", corpus)
	if !got.IsDuplicate || got.MatchType != models.MatchPartial || got.Confidence != 60 {
		t.Fatalf("expected size+pages partial at confidence 60, got %+v", got)
	}
}

func TestClassifySizeAndPagesSkipsUnreadable(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	f := NewFingerprinter(DefaultConfig())
	ts := time.Now()

	// Equal sizes with zero pages: both extractions failed, the shared size
	// alone is not evidence of duplication.
	fpOld := f.Fingerprint("a.pdf", []byte("0123456789"), "", 0, ts)
	fpNew := f.Fingerprint("b.pdf", []byte("abcdefghij"), "", 0, ts)
	corpus := []models.Document{docWithFingerprint("doc-1", "a.pdf", fpOld, "")}

	got := c.Classify(fpNew, "", corpus)
	if got.IsDuplicate {
		t.Fatalf("zero-page size match must not classify as duplicate: %+v", got)
	}
}

func TestClassifyDateFallback(t *testing.T) {
	cfg := DefaultConfig()
	c := NewClassifier(cfg)
	f := NewFingerprinter(cfg)
	ts := time.Now()

	textA := "First CPS narrative for the hearing. The officer observed the residence. Dated 01/05/2024."
	textB := "Unrelated second filing, same day. Medical summary for the clinic visit. Dated 01/05/2024."
	corpus := []models.Document{
		docWithFingerprint("doc-1", "narrative.pdf", f.Fingerprint("narrative.pdf", []byte("aa"), textA, 2, ts), textA),
		docWithFingerprint("doc-2", "medical.pdf", f.Fingerprint("medical.pdf", []byte("bbb"), textB, 4, ts), textB),
	}

	// New document, same date, low similarity to both siblings: with two
	// documents already on that date a manual review verdict is required.
	newText := "Completely new inspection checklist covering the facility. Dated 01/05/2024."
	fpNew := f.Fingerprint("checklist.pdf", []byte("cccc"), newText, 7, ts)

	got := c.Classify(fpNew, "2024-01-05", corpus)
	if !got.IsDuplicate || got.MatchType != models.MatchDateBased {
		t.Fatalf("expected date-based verdict, got %+v", got)
	}
	if got.DateMatch == nil {
		t.Fatal("DateMatch detail missing")
	}
	if !got.DateMatch.RequiresManualReview {
		t.Error("two same-date siblings must force manual review")
	}
	if len(got.DateMatch.Siblings) != 2 {
		t.Errorf("siblings = %d, want 2", len(got.DateMatch.Siblings))
	}
	if got.Confidence < cfg.Thresholds.DateMinConfidence {
		t.Errorf("confidence = %d, below floor %d", got.Confidence, cfg.Thresholds.DateMinConfidence)
	}
}

func TestClassifyDateFallbackSingleDissimilarSibling(t *testing.T) {
	cfg := DefaultConfig()
	c := NewClassifier(cfg)
	f := NewFingerprinter(cfg)
	ts := time.Now()

	textA := "Officer narrative about the January visit. Dated 01/05/2024."
	corpus := []models.Document{
		docWithFingerprint("doc-1", "narrative.pdf", f.Fingerprint("narrative.pdf", []byte("aa"), textA, 2, ts), textA),
	}

	// One sibling, similarity at or below the weak threshold: the upload is
	// accepted.
	newText := "Totally unrelated inspection checklist covering equipment storage and maintenance schedules."
	fpNew := f.Fingerprint("checklist.pdf", []byte("bbb"), newText, 7, ts)

	got := c.Classify(fpNew, "2024-01-05", corpus)
	if got.IsDuplicate {
		t.Fatalf("single dissimilar sibling must not reject the upload: %+v", got)
	}
}

func TestClassifyTierOrder(t *testing.T) {
	// A candidate that satisfies both tier 1 and tier 2 must be reported at
	// tier 1 confidence.
	c := NewClassifier(DefaultConfig())
	f := NewFingerprinter(DefaultConfig())
	ts := time.Now()

	data := []byte("same bytes")
	fp := f.Fingerprint("same.pdf", data, "", 1, ts)
	corpus := []models.Document{docWithFingerprint("doc-1", "same.pdf", fp, "")}

	got := c.Classify(f.Fingerprint("same.pdf", data, "", 1, ts), "", corpus)
	if got.MatchType != models.MatchExact || got.Confidence != 100 {
		t.Fatalf("tier 1 must win over tier 2, got %+v", got)
	}
}
