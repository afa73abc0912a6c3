package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

func version(docID string, n int, at time.Time) models.DocumentVersion {
	return models.DocumentVersion{
		DocumentID: docID,
		Version:    n,
		Category:   models.CategoryPrimary,
		ChangedAt:  at,
		ChangeType: models.ChangeEdited,
	}
}

func findPattern(patterns []models.SystematicPattern, ptype models.PatternType) *models.SystematicPattern {
	for i := range patterns {
		if patterns[i].Type == ptype {
			return &patterns[i]
		}
	}
	return nil
}

func TestDetectCoordinatedAlterations(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)

	// Three documents edited within minutes of each other.
	versions := map[string][]models.DocumentVersion{
		"doc-1": {version("doc-1", 2, base)},
		"doc-2": {version("doc-2", 3, base.Add(10 * time.Minute))},
		"doc-3": {version("doc-3", 2, base.Add(25 * time.Minute))},
	}

	out, err := d.Detect(context.Background(), nil, versions)
	if err != nil {
		t.Fatal(err)
	}

	p := findPattern(out.Patterns, models.PatternCoordinatedAlteration)
	if p == nil {
		t.Fatal("expected coordinated_alteration pattern")
	}
	if p.Severity != models.SeverityHigh {
		t.Errorf("severity = %s, want high (3 documents)", p.Severity)
	}
	if len(p.AffectedDocuments) != 3 {
		t.Errorf("affected documents = %d, want 3", len(p.AffectedDocuments))
	}
	if p.Confidence <= 0 || p.Confidence > 0.95 {
		t.Errorf("confidence out of range: %v", p.Confidence)
	}
}

func TestDetectCoordinatedAlterationsCritical(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)

	versions := make(map[string][]models.DocumentVersion)
	for _, id := range []string{"d1", "d2", "d3", "d4", "d5"} {
		versions[id] = []models.DocumentVersion{version(id, 2, base.Add(time.Minute))}
	}

	out, err := d.Detect(context.Background(), nil, versions)
	if err != nil {
		t.Fatal(err)
	}
	p := findPattern(out.Patterns, models.PatternCoordinatedAlteration)
	if p == nil {
		t.Fatal("expected pattern")
	}
	if p.Severity != models.SeverityCritical {
		t.Errorf("severity = %s, want critical (5 documents)", p.Severity)
	}
}

func TestDetectCoordinatedAlterationsBelowThreshold(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)

	// Only two documents in the window: below the minimum cluster size.
	versions := map[string][]models.DocumentVersion{
		"doc-1": {version("doc-1", 2, base), version("doc-1", 3, base.Add(time.Minute))},
		"doc-2": {version("doc-2", 2, base.Add(2 * time.Minute))},
	}

	out, err := d.Detect(context.Background(), nil, versions)
	if err != nil {
		t.Fatal(err)
	}
	if findPattern(out.Patterns, models.PatternCoordinatedAlteration) != nil {
		t.Error("two documents must not form a coordinated cluster")
	}
}

func TestDetectEvidenceSuppression(t *testing.T) {
	d := NewDetector(DefaultConfig())

	textA := "Key testimony was omitted from the final report. Sections were redacted before filing."
	textB := "The earlier findings were downplayed in this revision."
	corpus := []models.Document{
		{ID: "doc-1", FileName: "a.pdf", TextContent: &textA},
		{ID: "doc-2", FileName: "b.pdf", TextContent: &textB},
	}

	out, err := d.Detect(context.Background(), corpus, nil)
	if err != nil {
		t.Fatal(err)
	}

	p := findPattern(out.Patterns, models.PatternEvidenceSuppression)
	if p == nil {
		t.Fatal("expected evidence_suppression pattern")
	}
	if len(p.AffectedDocuments) != 2 {
		t.Errorf("affected documents = %d, want 2", len(p.AffectedDocuments))
	}
	if len(p.Evidence) < 3 {
		t.Errorf("evidence entries = %d, want at least 3 (omitted, redacted, downplayed)", len(p.Evidence))
	}
}

func TestDetectSuppressionContradictionNeedsRecurrence(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// A single "however" is normal prose and must not count; the other
	// vocabularies are absent, so no pattern forms.
	text := "The visit went well. However, scheduling remains difficult."
	corpus := []models.Document{{ID: "doc-1", FileName: "a.pdf", TextContent: &text}}

	out, err := d.Detect(context.Background(), corpus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if findPattern(out.Patterns, models.PatternEvidenceSuppression) != nil {
		t.Error("single contradiction indicator must not trigger suppression")
	}
}

func TestDetectWitnessManipulation(t *testing.T) {
	d := NewDetector(DefaultConfig())

	text := "The child appeared coached and said she was told to say everything was fine."
	corpus := []models.Document{{ID: "doc-1", FileName: "interview.pdf", TextContent: &text}}

	out, err := d.Detect(context.Background(), corpus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if findPattern(out.Patterns, models.PatternWitnessManipulation) == nil {
		t.Error("expected witness_manipulation pattern from two coaching indicators")
	}
}

func TestDetectTimelineAnomalies(t *testing.T) {
	d := NewDetector(DefaultConfig())
	up := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	corpus := []models.Document{
		{
			ID:           "doc-1",
			FileName:     "backdated.pdf",
			UploadedAt:   up,
			LastModified: up.Add(-48 * time.Hour),
		},
	}
	versions := map[string][]models.DocumentVersion{
		"doc-2": {
			version("doc-2", 1, up),
			version("doc-2", 2, up.Add(-time.Hour)), // v2 timestamped before v1
		},
	}

	out, err := d.Detect(context.Background(), corpus, versions)
	if err != nil {
		t.Fatal(err)
	}

	if len(out.TimelineAnomalies) != 2 {
		t.Fatalf("anomalies = %d, want 2", len(out.TimelineAnomalies))
	}

	var backdated, violation *models.TimelineAnomaly
	for i := range out.TimelineAnomalies {
		switch out.TimelineAnomalies[i].Type {
		case models.AnomalyBackdated:
			backdated = &out.TimelineAnomalies[i]
		case models.AnomalySequenceViolation:
			violation = &out.TimelineAnomalies[i]
		}
	}

	if backdated == nil || backdated.Severity != models.SeverityHigh || backdated.Confidence != 0.8 {
		t.Errorf("backdated anomaly wrong: %+v", backdated)
	}
	if violation == nil || violation.Severity != models.SeverityCritical || violation.Confidence != 0.95 {
		t.Errorf("sequence violation wrong: %+v", violation)
	}

	p := findPattern(out.Patterns, models.PatternTimelineManipulation)
	if p == nil {
		t.Fatal("expected timeline_manipulation summary pattern")
	}
	if p.Severity != models.SeverityCritical {
		t.Errorf("summary severity = %s, want critical", p.Severity)
	}
}

func TestDetectStatusChanges(t *testing.T) {
	d := NewDetector(DefaultConfig())
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mk := func(docID string, n int, at time.Time, include bool, cat models.Category) models.DocumentVersion {
		v := version(docID, n, at)
		v.Include = include
		v.Category = cat
		return v
	}

	// Spread edits across days so no coordination cluster forms; three flips
	// total (two include, one category).
	versions := map[string][]models.DocumentVersion{
		"doc-1": {
			mk("doc-1", 1, base, true, models.CategoryPrimary),
			mk("doc-1", 2, base.Add(24*time.Hour), false, models.CategoryPrimary),
			mk("doc-1", 3, base.Add(48*time.Hour), true, models.CategoryPrimary),
		},
		"doc-2": {
			mk("doc-2", 1, base.Add(72*time.Hour), true, models.CategoryPrimary),
			mk("doc-2", 2, base.Add(96*time.Hour), true, models.CategorySupporting),
		},
	}

	out, err := d.Detect(context.Background(), nil, versions)
	if err != nil {
		t.Fatal(err)
	}

	p := findPattern(out.Patterns, models.PatternStatusChanges)
	if p == nil {
		t.Fatal("expected status_changes pattern at three flips")
	}
	if p.Severity != models.SeverityMedium {
		t.Errorf("severity = %s, want medium (below double threshold)", p.Severity)
	}
	if len(p.AffectedDocuments) != 2 {
		t.Errorf("affected documents = %d, want 2", len(p.AffectedDocuments))
	}
}

func TestDetectInconsistencies(t *testing.T) {
	d := NewDetector(DefaultConfig())

	textA := "The father was present at the hearing. Meeting held 01/05/2024."
	textB := "The father was absent from the hearing. Meeting held 02/20/2024."
	corpus := []models.Document{
		{ID: "doc-1", FileName: "a.pdf", TextContent: &textA, Category: models.CategoryPrimary, Children: []string{"Noel"}},
		{ID: "doc-2", FileName: "b.pdf", TextContent: &textB, Category: models.CategorySupporting, Children: []string{"Noel"}},
	}

	out, err := d.Detect(context.Background(), corpus, nil)
	if err != nil {
		t.Fatal(err)
	}

	types := make(map[models.InconsistencyType]bool)
	for _, inc := range out.Inconsistencies {
		types[inc.Type] = true
		if inc.Documents[0] != "doc-1" || inc.Documents[1] != "doc-2" {
			t.Errorf("pair ordering wrong: %v", inc.Documents)
		}
	}

	if !types[models.InconsistencyContradiction] {
		t.Error("expected contradiction (present vs absent)")
	}
	if !types[models.InconsistencyDateMismatch] {
		t.Error("expected date_mismatch between related documents with disjoint dates")
	}
	if !types[models.InconsistencyCategoryMismatch] {
		t.Error("expected category_mismatch between related documents")
	}
}

func TestDetectInconsistenciesUnrelatedPair(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// No shared subjects or laws: only the contradiction check applies, and
	// these texts do not contradict.
	textA := "Routine visit note dated 01/05/2024."
	textB := "Unrelated clinic summary dated 02/20/2024."
	corpus := []models.Document{
		{ID: "doc-1", FileName: "a.pdf", TextContent: &textA, Category: models.CategoryPrimary},
		{ID: "doc-2", FileName: "b.pdf", TextContent: &textB, Category: models.CategorySupporting},
	}

	out, err := d.Detect(context.Background(), corpus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Inconsistencies) != 0 {
		t.Errorf("unrelated pair produced %d inconsistencies, want 0", len(out.Inconsistencies))
	}
}

func TestDetectCancelled(t *testing.T) {
	d := NewDetector(DefaultConfig())

	texts := make([]string, 4)
	corpus := make([]models.Document, 4)
	for i := range corpus {
		texts[i] = "Some document text for pairwise scanning."
		corpus[i] = models.Document{ID: string(rune('a' + i)), TextContent: &texts[i]}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Detect(ctx, corpus, nil); err == nil {
		t.Error("cancelled context must surface an error")
	}
}

func TestDetectEmptyCorpus(t *testing.T) {
	d := NewDetector(DefaultConfig())
	out, err := d.Detect(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Patterns) != 0 || len(out.TimelineAnomalies) != 0 || len(out.Inconsistencies) != 0 {
		t.Errorf("empty corpus must produce the empty analysis: %+v", out)
	}
}
