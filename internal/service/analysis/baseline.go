package analysis

import (
	"fmt"
	"sort"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// BaselineComparator diffs documents sharing an extracted calendar date. The
// earliest-modified document in a group is the baseline; every later
// document is compared against it for name-mention deltas, numeric token
// changes, text divergence and metadata drift.
type BaselineComparator struct {
	cfg Config
}

func NewBaselineComparator(cfg Config) *BaselineComparator {
	return &BaselineComparator{cfg: cfg}
}

// CompareByDate groups the corpus by extracted date and reports every group
// that produced at least one flag, sorted by suspicious-change count
// descending. Documents without an extractable date are excluded entirely.
func (b *BaselineComparator) CompareByDate(corpus []models.Document) []models.DateGroupReport {
	groups := make(map[string][]models.Document)
	for _, doc := range corpus {
		date, ok := ExtractDate(doc.Text(), doc.FileName)
		if !ok {
			continue
		}
		groups[date] = append(groups[date], doc)
	}

	var reports []models.DateGroupReport
	for date, docs := range groups {
		if len(docs) < 2 {
			continue
		}
		report := b.compareGroup(date, docs)
		if len(report.Flags) == 0 {
			continue
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].SuspiciousChanges != reports[j].SuspiciousChanges {
			return reports[i].SuspiciousChanges > reports[j].SuspiciousChanges
		}
		return reports[i].Date < reports[j].Date
	})
	return reports
}

func (b *BaselineComparator) compareGroup(date string, docs []models.Document) models.DateGroupReport {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].LastModified.Before(docs[j].LastModified)
	})
	baseline := &docs[0]

	report := models.DateGroupReport{
		Date:          date,
		DocumentCount: len(docs),
	}
	for i := range docs {
		report.Documents = append(report.Documents, *ref(&docs[i]))
	}

	for i := 1; i < len(docs); i++ {
		b.compareAgainstBaseline(baseline, &docs[i], &report)
	}
	report.SuspiciousChanges = len(report.Flags)
	return report
}

func (b *BaselineComparator) compareAgainstBaseline(baseline, comp *models.Document, report *models.DateGroupReport) {
	t := b.cfg.Thresholds
	pair := []string{baseline.ID, comp.ID}
	flagsBefore := len(report.Flags)

	// Name-mention deltas over the watchlist.
	for _, name := range b.cfg.Watchlist {
		baseCount := countMentions(baseline.Text(), name)
		compCount := countMentions(comp.Text(), name)
		delta := compCount - baseCount
		if delta == 0 {
			continue
		}
		report.NameDeltas = append(report.NameDeltas, models.NameDelta{
			Name:          name,
			BaselineCount: baseCount,
			CompareCount:  compCount,
			Delta:         delta,
		})

		severity := models.SeverityLow
		if abs(delta) > t.NameDeltaCritical {
			severity = models.SeverityCritical
		} else if abs(delta) > t.NameDeltaHigh {
			severity = models.SeverityHigh
		}
		report.Flags = append(report.Flags, models.TamperingFlag{
			Type:       models.FlagNameAlteration,
			Severity:   severity,
			Confidence: severityConfidence(severity),
			Description: fmt.Sprintf("mentions of %q changed from %d to %d between same-date documents",
				name, baseCount, compCount),
			Evidence: []string{
				fmt.Sprintf("baseline %s: %d mentions", baseline.FileName, baseCount),
				fmt.Sprintf("comparison %s: %d mentions", comp.FileName, compCount),
			},
			AffectedDocuments: pair,
		})
	}

	// Numeric token diff. No severity judgment on its own; the systematic
	// layer consumes these.
	baseNums := numericTokens(baseline.Text())
	compNums := numericTokens(comp.Text())
	added := setDifference(compNums, baseNums)
	removed := setDifference(baseNums, compNums)
	if len(added) > 0 || len(removed) > 0 {
		report.NumericDiffs = append(report.NumericDiffs, models.NumericDiff{
			Added:   added,
			Removed: removed,
		})
	}

	// Full-text similarity over word+punctuation tokens.
	if baseline.HasText() && comp.HasText() {
		sim := jaccard(tokenSet(baseline.Text()), tokenSet(comp.Text()))
		if sim < t.TextSimilarityHigh {
			severity := models.SeverityHigh
			if sim < t.TextSimilarityCritical {
				severity = models.SeverityCritical
			}
			report.Flags = append(report.Flags, models.TamperingFlag{
				Type:       models.FlagTextDivergence,
				Severity:   severity,
				Confidence: severityConfidence(severity),
				Description: fmt.Sprintf("same-date documents are %d%% different",
					roundPct(1-sim)),
				Evidence: []string{
					fmt.Sprintf("similarity %.2f between %s and %s", sim, baseline.FileName, comp.FileName),
				},
				AffectedDocuments: pair,
			})
		}
	}

	// Metadata consistency.
	if baseline.Category != comp.Category {
		report.Flags = append(report.Flags, models.TamperingFlag{
			Type:       models.FlagMetadataChange,
			Severity:   models.SeverityMedium,
			Confidence: severityConfidence(models.SeverityMedium),
			Description: fmt.Sprintf("category changed from %s to %s between same-date documents",
				baseline.Category, comp.Category),
			Evidence:          []string{baseline.FileName + " vs " + comp.FileName},
			AffectedDocuments: pair,
		})
	}

	// Timeline plausibility: a flagged pair modified within seconds of each
	// other suggests one edit session touched both.
	if len(report.Flags) > flagsBefore {
		gap := comp.LastModified.Sub(baseline.LastModified)
		if gap < 0 {
			gap = -gap
		}
		if int(gap.Seconds()) < t.TimelineGapSeconds {
			report.Flags = append(report.Flags, models.TamperingFlag{
				Type:       models.FlagTimelineInconsistency,
				Severity:   models.SeverityHigh,
				Confidence: severityConfidence(models.SeverityHigh),
				Description: fmt.Sprintf("flagged documents modified only %.0f seconds apart",
					gap.Seconds()),
				Evidence: []string{
					fmt.Sprintf("%s modified %s", baseline.FileName, baseline.LastModified.UTC().Format("2006-01-02T15:04:05Z")),
					fmt.Sprintf("%s modified %s", comp.FileName, comp.LastModified.UTC().Format("2006-01-02T15:04:05Z")),
				},
				AffectedDocuments: pair,
			})
		}
	}
}

// severityConfidence maps flag severity to the fixed per-flag confidence
// used at the pair-comparison layer.
func severityConfidence(s models.Severity) float64 {
	switch s {
	case models.SeverityCritical:
		return 0.9
	case models.SeverityHigh:
		return 0.8
	case models.SeverityMedium:
		return 0.7
	default:
		return 0.6
	}
}

func setDifference(a, b map[string]struct{}) []string {
	var out []string
	for t := range a {
		if _, ok := b[t]; !ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
