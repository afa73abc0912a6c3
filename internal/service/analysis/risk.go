package analysis

import (
	"fmt"
	"sort"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// Layered severity weights. Patterns carry the most weight, timeline
// anomalies less, pairwise inconsistencies the least.
var (
	patternWeights = map[models.Severity]float64{
		models.SeverityCritical: 4,
		models.SeverityHigh:     3,
		models.SeverityMedium:   2,
		models.SeverityLow:      1,
	}
	anomalyWeights = map[models.Severity]float64{
		models.SeverityCritical: 3,
		models.SeverityHigh:     2,
		models.SeverityMedium:   1,
		models.SeverityLow:      0.5,
	}
	inconsistencyWeights = map[models.Severity]float64{
		models.SeverityCritical: 2,
		models.SeverityHigh:     1.5,
		models.SeverityMedium:   1,
		models.SeverityLow:      0.5,
	}
)

// Flat per-item bonuses on top of the layered weights.
const (
	nameAlterationBonus = 0.5
	suppressionBonus    = 0.5
)

// Assessor folds every analysis layer into a single scored risk verdict
// with legal-implication indicators. It never states conclusions, only
// indicators with confidence.
type Assessor struct {
	cfg Config
}

func NewAssessor(cfg Config) *Assessor {
	return &Assessor{cfg: cfg}
}

// Assess combines systematic findings and per-date baseline reports.
// With no findings at all it returns the explicit clean verdict: LOW risk
// and a "no tampering indicators" summary.
func (a *Assessor) Assess(sys models.SystematicAnalysis, groups []models.DateGroupReport) models.RiskAssessment {
	score := 0.0
	var confidences []float64
	patternTypes := make(map[models.PatternType]struct{})
	highRisk := make(map[string]struct{})

	suppressionCount := 0
	for _, p := range sys.Patterns {
		score += patternWeights[p.Severity]
		confidences = append(confidences, p.Confidence)
		patternTypes[p.Type] = struct{}{}
		if p.Type == models.PatternEvidenceSuppression || p.Type == models.PatternWitnessManipulation {
			suppressionCount += len(p.Evidence)
		}
		if p.Severity == models.SeverityHigh || p.Severity == models.SeverityCritical {
			for _, id := range p.AffectedDocuments {
				highRisk[id] = struct{}{}
			}
		}
	}

	for _, an := range sys.TimelineAnomalies {
		score += anomalyWeights[an.Severity]
		confidences = append(confidences, an.Confidence)
		if an.Severity == models.SeverityCritical {
			highRisk[an.DocumentID] = struct{}{}
		}
	}

	for _, inc := range sys.Inconsistencies {
		score += inconsistencyWeights[inc.Severity]
	}

	nameAlterations := 0
	for _, g := range groups {
		for _, f := range g.Flags {
			if f.Type == models.FlagNameAlteration {
				nameAlterations++
				confidences = append(confidences, f.Confidence)
			}
			if f.Severity == models.SeverityCritical {
				for _, id := range f.AffectedDocuments {
					highRisk[id] = struct{}{}
				}
			}
		}
	}

	score += nameAlterationBonus * float64(nameAlterations)
	score += suppressionBonus * float64(suppressionCount)

	t := a.cfg.Thresholds
	level := models.RiskLow
	switch {
	case score >= t.RiskCritical:
		level = models.RiskCritical
	case score >= t.RiskHigh:
		level = models.RiskHigh
	case score >= t.RiskModerate:
		level = models.RiskModerate
	}

	assessment := models.RiskAssessment{
		OverallRisk:         level,
		Score:               score,
		Confidence:          aggregateConfidence(confidences, len(patternTypes)),
		PatternCount:        len(sys.Patterns),
		AnomalyCount:        len(sys.TimelineAnomalies),
		InconsistencyCount:  len(sys.Inconsistencies),
		NameAlterationCount: nameAlterations,
		SuppressionCount:    suppressionCount,
		HighRiskDocuments:   setToSorted(highRisk),
		LegalImplications:   legalImplications(sys),
		Recommendations:     recommendations(level),
		Summary:             summarize(level, sys, nameAlterations),
	}
	return assessment
}

// aggregateConfidence is the mean contributing confidence plus a small,
// capped bonus for multiple corroborating pattern types.
func aggregateConfidence(confidences []float64, patternTypeCount int) float64 {
	if len(confidences) == 0 {
		return 0.9
	}
	sum := 0.0
	for _, c := range confidences {
		sum += c
	}
	mean := sum / float64(len(confidences))

	if patternTypeCount > 1 {
		bonus := 0.05 * float64(patternTypeCount-1)
		if bonus > 0.15 {
			bonus = 0.15
		}
		mean += bonus
	}
	if mean > 0.99 {
		mean = 0.99
	}
	return mean
}

// legalImplications is a fixed mapping from detected pattern kinds to the
// legal issues they indicate.
func legalImplications(sys models.SystematicAnalysis) []models.LegalImplication {
	var out []models.LegalImplication

	hasSuppression := false
	hasCoordination := false
	for _, p := range sys.Patterns {
		switch p.Type {
		case models.PatternEvidenceSuppression, models.PatternWitnessManipulation:
			hasSuppression = true
		case models.PatternCoordinatedAlteration:
			hasCoordination = true
		}
	}

	if hasSuppression {
		out = append(out, models.LegalImplication{
			Type:        "brady_violation",
			Severity:    models.SeverityCritical,
			Description: "suppression indicators suggest exculpatory material may have been withheld",
		})
	}
	if hasCoordination || hasSuppression {
		out = append(out, models.LegalImplication{
			Type:        "evidence_tampering",
			Severity:    models.SeverityCritical,
			Description: "alteration patterns indicate records may have been modified after the fact",
		})
	}
	if len(sys.Inconsistencies)+len(sys.TimelineAnomalies) >= 3 {
		out = append(out, models.LegalImplication{
			Type:        "due_process_violation",
			Severity:    models.SeverityHigh,
			Description: "accumulated factual and timeline inconsistencies undermine reliability of the record",
		})
	}
	return out
}

func recommendations(level models.RiskLevel) []string {
	base := []string{
		"preserve all document versions and access logs",
		"obtain certified originals for flagged documents",
	}
	switch level {
	case models.RiskCritical:
		return append([]string{
			"halt reliance on affected documents pending forensic review",
			"notify oversight authority of suspected tampering",
		}, base...)
	case models.RiskHigh:
		return append([]string{
			"request independent forensic examination of flagged documents",
		}, base...)
	case models.RiskModerate:
		return base
	default:
		return []string{"no action required; continue routine monitoring"}
	}
}

func summarize(level models.RiskLevel, sys models.SystematicAnalysis, nameAlterations int) string {
	if level == models.RiskLow && len(sys.Patterns) == 0 &&
		len(sys.TimelineAnomalies) == 0 && len(sys.Inconsistencies) == 0 && nameAlterations == 0 {
		return "no tampering indicators detected"
	}

	parts := []string{fmt.Sprintf("overall risk %s", level)}
	if n := len(sys.Patterns); n > 0 {
		parts = append(parts, fmt.Sprintf("%d systematic patterns", n))
	}
	if n := len(sys.TimelineAnomalies); n > 0 {
		parts = append(parts, fmt.Sprintf("%d timeline anomalies", n))
	}
	if n := len(sys.Inconsistencies); n > 0 {
		parts = append(parts, fmt.Sprintf("%d cross-document inconsistencies", n))
	}
	if nameAlterations > 0 {
		parts = append(parts, fmt.Sprintf("%d name alterations", nameAlterations))
	}
	sort.Strings(parts[1:])
	out := parts[0] + ": "
	for i, p := range parts[1:] {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
