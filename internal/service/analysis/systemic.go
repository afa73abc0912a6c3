package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// Detector performs the corpus-wide systematic analysis: edit-time
// clustering, vocabulary scans, timeline validation, status-change tracking
// and pairwise cross-document inconsistency detection. It operates over the
// full corpus plus the complete version history, not just same-date pairs.
//
// Every sub-detector is optional: when its minimum evidence threshold is not
// met it contributes nothing. An empty corpus yields the empty analysis.
type Detector struct {
	cfg Config
}

func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect runs all sub-detectors and returns the combined result. The
// pairwise inconsistency scan is chunked across workers and honors ctx;
// cancellation discards all partial work.
func (d *Detector) Detect(ctx context.Context, corpus []models.Document, versions map[string][]models.DocumentVersion) (models.SystematicAnalysis, error) {
	var out models.SystematicAnalysis

	if p, ok := d.coordinatedAlterations(versions); ok {
		out.Patterns = append(out.Patterns, p)
	}
	if p, ok := d.evidenceSuppression(corpus); ok {
		out.Patterns = append(out.Patterns, p)
	}
	if p, ok := d.witnessManipulation(corpus); ok {
		out.Patterns = append(out.Patterns, p)
	}

	out.TimelineAnomalies = d.timelineAnomalies(corpus, versions)
	if p, ok := d.timelinePattern(out.TimelineAnomalies); ok {
		out.Patterns = append(out.Patterns, p)
	}

	if p, ok := d.statusChanges(versions); ok {
		out.Patterns = append(out.Patterns, p)
	}

	inconsistencies, err := d.detectInconsistencies(ctx, corpus)
	if err != nil {
		return models.SystematicAnalysis{}, err
	}
	out.Inconsistencies = inconsistencies

	return out, nil
}

// coordinatedAlterations buckets every version-change timestamp into fixed
// windows and reports the largest cluster of near-simultaneous edits that
// touches enough distinct documents.
func (d *Detector) coordinatedAlterations(versions map[string][]models.DocumentVersion) (models.SystematicPattern, bool) {
	t := d.cfg.Thresholds
	window := int64(t.CoordinationWindowHours) * 3600

	type bucket struct {
		start int64
		count int
		docs  map[string]struct{}
	}
	buckets := make(map[int64]*bucket)
	for docID, vs := range versions {
		for _, v := range vs {
			key := v.ChangedAt.Unix() / window
			b, ok := buckets[key]
			if !ok {
				b = &bucket{start: key * window, docs: make(map[string]struct{})}
				buckets[key] = b
			}
			b.count++
			b.docs[docID] = struct{}{}
		}
	}

	var best *bucket
	for _, b := range buckets {
		if b.count < t.ClusterMinVersions || len(b.docs) < t.ClusterMinDocuments {
			continue
		}
		if best == nil || len(b.docs) > len(best.docs) ||
			(len(b.docs) == len(best.docs) && b.start < best.start) {
			best = b
		}
	}
	if best == nil {
		return models.SystematicPattern{}, false
	}

	severity := models.SeverityHigh
	if len(best.docs) >= t.ClusterCriticalDocuments {
		severity = models.SeverityCritical
	}
	windowStart := time.Unix(best.start, 0).UTC()
	return models.SystematicPattern{
		Type:       models.PatternCoordinatedAlteration,
		Severity:   severity,
		Confidence: capConfidence(0.5 + 0.1*float64(len(best.docs))),
		Description: fmt.Sprintf("%d documents altered within one %d-hour window (%d edits)",
			len(best.docs), t.CoordinationWindowHours, best.count),
		Evidence: []string{
			fmt.Sprintf("window starting %s", windowStart.Format(time.RFC3339)),
			fmt.Sprintf("%d version changes across %d documents", best.count, len(best.docs)),
		},
		AffectedDocuments: setToSorted(best.docs),
	}, true
}

// vocabularyHit is one indicator keyword found in one document.
type vocabularyHit struct {
	docID      string
	subPattern string
	keyword    string
}

// evidenceSuppression scans document text for the four suppression
// sub-pattern vocabularies. Contradiction indicators only count when they
// recur within a document.
func (d *Detector) evidenceSuppression(corpus []models.Document) (models.SystematicPattern, bool) {
	v := d.cfg.Suppression
	var hits []vocabularyHit
	for i := range corpus {
		doc := &corpus[i]
		if !doc.HasText() {
			continue
		}
		hits = append(hits, scanVocabulary(doc, "omission", v.Omission, 1)...)
		hits = append(hits, scanVocabulary(doc, "minimization", v.Minimization, 1)...)
		hits = append(hits, scanVocabulary(doc, "contradiction", v.Contradiction, v.ContradictionMinHits)...)
		hits = append(hits, scanVocabulary(doc, "redirection", v.Redirection, 1)...)
	}
	return d.vocabularyPattern(models.PatternEvidenceSuppression, hits, d.cfg.Thresholds.SuppressionMinHits,
		"evidence suppression language across %d documents (%d indicators)")
}

// witnessManipulation applies the coaching/intimidation vocabulary with the
// same scan technique.
func (d *Detector) witnessManipulation(corpus []models.Document) (models.SystematicPattern, bool) {
	var hits []vocabularyHit
	for i := range corpus {
		doc := &corpus[i]
		if !doc.HasText() {
			continue
		}
		hits = append(hits, scanVocabulary(doc, "coaching", d.cfg.WitnessVocab, 1)...)
	}
	return d.vocabularyPattern(models.PatternWitnessManipulation, hits, d.cfg.Thresholds.WitnessMinHits,
		"witness coaching or intimidation language across %d documents (%d indicators)")
}

// scanVocabulary returns one hit per indicator keyword found in doc. When
// minOccurrences > 1, the keyword must recur that many times to count.
func scanVocabulary(doc *models.Document, subPattern string, vocab []string, minOccurrences int) []vocabularyHit {
	var hits []vocabularyHit
	for _, kw := range vocab {
		if countOccurrences(doc.Text(), kw) >= minOccurrences {
			hits = append(hits, vocabularyHit{docID: doc.ID, subPattern: subPattern, keyword: kw})
		}
	}
	return hits
}

func (d *Detector) vocabularyPattern(ptype models.PatternType, hits []vocabularyHit, minHits int, descFormat string) (models.SystematicPattern, bool) {
	if len(hits) < minHits {
		return models.SystematicPattern{}, false
	}

	docs := make(map[string]struct{})
	evidence := make([]string, 0, len(hits))
	for _, h := range hits {
		docs[h.docID] = struct{}{}
		evidence = append(evidence, fmt.Sprintf("%s: %q (%s)", h.docID, h.keyword, h.subPattern))
	}
	sort.Strings(evidence)

	t := d.cfg.Thresholds
	severity := models.SeverityMedium
	switch {
	case len(docs) >= t.SuppressionCriticalDocs:
		severity = models.SeverityCritical
	case len(docs) >= t.SuppressionHighDocs:
		severity = models.SeverityHigh
	}

	return models.SystematicPattern{
		Type:              ptype,
		Severity:          severity,
		Confidence:        capConfidence(0.4 + 0.1*float64(len(hits))),
		Description:       fmt.Sprintf(descFormat, len(docs), len(hits)),
		Evidence:          evidence,
		AffectedDocuments: setToSorted(docs),
	}, true
}

// timelineAnomalies validates document and version timestamps: a document
// modified before it was uploaded is backdated; a later version number with
// an earlier timestamp than its predecessor is a sequence violation.
func (d *Detector) timelineAnomalies(corpus []models.Document, versions map[string][]models.DocumentVersion) []models.TimelineAnomaly {
	var anomalies []models.TimelineAnomaly

	for i := range corpus {
		doc := &corpus[i]
		if doc.LastModified.Before(doc.UploadedAt) {
			anomalies = append(anomalies, models.TimelineAnomaly{
				Type:       models.AnomalyBackdated,
				DocumentID: doc.ID,
				Severity:   models.SeverityHigh,
				Confidence: 0.8,
				Description: fmt.Sprintf("%s reports modification %s before its upload %s",
					doc.FileName,
					doc.LastModified.UTC().Format(time.RFC3339),
					doc.UploadedAt.UTC().Format(time.RFC3339)),
			})
		}
	}

	for docID, vs := range versions {
		ordered := make([]models.DocumentVersion, len(vs))
		copy(ordered, vs)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })
		for i := 1; i < len(ordered); i++ {
			prev, cur := ordered[i-1], ordered[i]
			if cur.Version > prev.Version && cur.ChangedAt.Before(prev.ChangedAt) {
				anomalies = append(anomalies, models.TimelineAnomaly{
					Type:       models.AnomalySequenceViolation,
					DocumentID: docID,
					Severity:   models.SeverityCritical,
					Confidence: 0.95,
					Description: fmt.Sprintf("version %d timestamped %s precedes version %d at %s",
						cur.Version, cur.ChangedAt.UTC().Format(time.RFC3339),
						prev.Version, prev.ChangedAt.UTC().Format(time.RFC3339)),
				})
			}
		}
	}

	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].DocumentID != anomalies[j].DocumentID {
			return anomalies[i].DocumentID < anomalies[j].DocumentID
		}
		return anomalies[i].Type < anomalies[j].Type
	})
	return anomalies
}

// timelinePattern summarizes the anomalies into the timeline-manipulation
// pattern when any exist.
func (d *Detector) timelinePattern(anomalies []models.TimelineAnomaly) (models.SystematicPattern, bool) {
	if len(anomalies) == 0 {
		return models.SystematicPattern{}, false
	}
	docs := make(map[string]struct{})
	evidence := make([]string, 0, len(anomalies))
	severity := models.SeverityHigh
	maxConf := 0.0
	for _, a := range anomalies {
		docs[a.DocumentID] = struct{}{}
		evidence = append(evidence, a.Description)
		if a.Severity == models.SeverityCritical {
			severity = models.SeverityCritical
		}
		if a.Confidence > maxConf {
			maxConf = a.Confidence
		}
	}
	return models.SystematicPattern{
		Type:              models.PatternTimelineManipulation,
		Severity:          severity,
		Confidence:        maxConf,
		Description:       fmt.Sprintf("%d timeline anomalies across %d documents", len(anomalies), len(docs)),
		Evidence:          evidence,
		AffectedDocuments: setToSorted(docs),
	}, true
}

// statusChanges walks each document's ordered version sequence and logs
// every include or category flip between adjacent versions.
func (d *Detector) statusChanges(versions map[string][]models.DocumentVersion) (models.SystematicPattern, bool) {
	docs := make(map[string]struct{})
	var evidence []string
	changes := 0

	for docID, vs := range versions {
		ordered := make([]models.DocumentVersion, len(vs))
		copy(ordered, vs)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })
		for i := 1; i < len(ordered); i++ {
			prev, cur := ordered[i-1], ordered[i]
			if prev.Include != cur.Include {
				changes++
				docs[docID] = struct{}{}
				evidence = append(evidence, fmt.Sprintf("%s: include %t -> %t at version %d",
					docID, prev.Include, cur.Include, cur.Version))
			}
			if prev.Category != cur.Category {
				changes++
				docs[docID] = struct{}{}
				evidence = append(evidence, fmt.Sprintf("%s: category %s -> %s at version %d",
					docID, prev.Category, cur.Category, cur.Version))
			}
		}
	}

	if changes < d.cfg.Thresholds.StatusChangeMin {
		return models.SystematicPattern{}, false
	}
	sort.Strings(evidence)

	severity := models.SeverityMedium
	if changes >= 2*d.cfg.Thresholds.StatusChangeMin {
		severity = models.SeverityHigh
	}
	return models.SystematicPattern{
		Type:              models.PatternStatusChanges,
		Severity:          severity,
		Confidence:        capConfidence(0.5 + 0.05*float64(changes)),
		Description:       fmt.Sprintf("%d inclusion or category flips across %d documents", changes, len(docs)),
		Evidence:          evidence,
		AffectedDocuments: setToSorted(docs),
	}, true
}

// detectInconsistencies performs the O(n²) pairwise comparison over
// documents with text: opposing-term contradictions, date-token mismatches
// between related documents and category mismatches between documents
// sharing a subject or law. The outer loop is split over workers; the
// complete result is assembled once, after every pair has been scanned.
func (d *Detector) detectInconsistencies(ctx context.Context, corpus []models.Document) ([]models.Inconsistency, error) {
	withText := make([]*models.Document, 0, len(corpus))
	for i := range corpus {
		if corpus[i].HasText() {
			withText = append(withText, &corpus[i])
		}
	}
	if len(withText) < 2 {
		return nil, nil
	}

	workers := runtime.NumCPU()
	if workers > len(withText) {
		workers = len(withText)
	}

	results := make([][]models.Inconsistency, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var local []models.Inconsistency
			for i := w; i < len(withText); i += workers {
				if ctx.Err() != nil {
					return
				}
				for j := i + 1; j < len(withText); j++ {
					local = append(local, d.comparePair(withText[i], withText[j])...)
				}
			}
			results[w] = local
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []models.Inconsistency
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Documents[0] != all[j].Documents[0] {
			return all[i].Documents[0] < all[j].Documents[0]
		}
		if all[i].Documents[1] != all[j].Documents[1] {
			return all[i].Documents[1] < all[j].Documents[1]
		}
		return all[i].Type < all[j].Type
	})
	return all, nil
}

func (d *Detector) comparePair(a, b *models.Document) []models.Inconsistency {
	var out []models.Inconsistency
	pair := [2]string{a.ID, b.ID}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}

	// Opposing-term contradictions.
	for _, terms := range d.cfg.AntonymPairs {
		aHasFirst := countMentions(a.Text(), terms[0]) > 0
		aHasSecond := countMentions(a.Text(), terms[1]) > 0
		bHasFirst := countMentions(b.Text(), terms[0]) > 0
		bHasSecond := countMentions(b.Text(), terms[1]) > 0
		if (aHasFirst && bHasSecond && !aHasSecond && !bHasFirst) ||
			(aHasSecond && bHasFirst && !aHasFirst && !bHasSecond) {
			out = append(out, models.Inconsistency{
				Type:        models.InconsistencyContradiction,
				Severity:    models.SeverityHigh,
				Documents:   pair,
				Description: fmt.Sprintf("documents state opposing terms %q / %q", terms[0], terms[1]),
				Evidence: []string{
					fmt.Sprintf("%s vs %s", a.FileName, b.FileName),
				},
			})
		}
	}

	related := shareAny(a.Children, b.Children) || shareAny(a.Laws, b.Laws)
	if !related {
		return out
	}

	// Date-token mismatch between related documents.
	aDates := dateTokens(a.Text())
	bDates := dateTokens(b.Text())
	if len(aDates) > 0 && len(bDates) > 0 && !intersects(aDates, bDates) {
		out = append(out, models.Inconsistency{
			Type:        models.InconsistencyDateMismatch,
			Severity:    models.SeverityMedium,
			Documents:   pair,
			Description: "related documents reference disjoint sets of dates",
			Evidence: []string{
				fmt.Sprintf("%s: %v", a.FileName, setToSorted(aDates)),
				fmt.Sprintf("%s: %v", b.FileName, setToSorted(bDates)),
			},
		})
	}

	// Category mismatch between documents sharing a subject or law.
	if a.Category != b.Category {
		out = append(out, models.Inconsistency{
			Type:        models.InconsistencyCategoryMismatch,
			Severity:    models.SeverityLow,
			Documents:   pair,
			Description: fmt.Sprintf("related documents categorized %s vs %s", a.Category, b.Category),
			Evidence: []string{
				fmt.Sprintf("%s vs %s", a.FileName, b.FileName),
			},
		})
	}

	return out
}

func shareAny(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func intersects(a, b map[string]struct{}) bool {
	for t := range a {
		if _, ok := b[t]; ok {
			return true
		}
	}
	return false
}

func capConfidence(c float64) float64 {
	if c > 0.95 {
		return 0.95
	}
	return c
}
