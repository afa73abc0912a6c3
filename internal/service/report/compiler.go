// Package report renders analysis results for consumers. The engine emits
// structured data only; everything presentational lives here so any output
// format can be substituted.
package report

import (
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// Report is the machine-consumable export: a summary, the full findings and
// a description of the methodology that produced them.
type Report struct {
	Summary     Summary     `json:"summary"`
	Findings    Findings    `json:"findings"`
	Methodology Methodology `json:"methodology"`
}

type Summary struct {
	GeneratedAt       time.Time        `json:"generated_at"`
	DocumentCount     int              `json:"document_count"`
	OverallRisk       models.RiskLevel `json:"overall_risk"`
	Score             float64          `json:"score"`
	Confidence        float64          `json:"confidence"`
	Narrative         string           `json:"narrative"`
	HighRiskDocuments []string         `json:"high_risk_documents"`
}

type Findings struct {
	DateGroups        []models.DateGroupReport   `json:"date_groups"`
	Patterns          []models.SystematicPattern `json:"patterns"`
	TimelineAnomalies []models.TimelineAnomaly   `json:"timeline_anomalies"`
	Inconsistencies   []models.Inconsistency     `json:"inconsistencies"`
	LegalImplications []models.LegalImplication  `json:"legal_implications"`
	Recommendations   []string                   `json:"recommendations"`
}

type Methodology struct {
	CorpusHash string   `json:"corpus_hash"`
	Layers     []string `json:"layers"`
	Caveats    []string `json:"caveats"`
}

// Compile assembles the export structure from an analysis result.
func Compile(result *models.AnalysisResult) *Report {
	return &Report{
		Summary: Summary{
			GeneratedAt:       result.GeneratedAt,
			DocumentCount:     result.DocumentCount,
			OverallRisk:       result.Risk.OverallRisk,
			Score:             result.Risk.Score,
			Confidence:        result.Risk.Confidence,
			Narrative:         result.Risk.Summary,
			HighRiskDocuments: result.Risk.HighRiskDocuments,
		},
		Findings: Findings{
			DateGroups:        result.DateGroups,
			Patterns:          result.Systematic.Patterns,
			TimelineAnomalies: result.Systematic.TimelineAnomalies,
			Inconsistencies:   result.Systematic.Inconsistencies,
			LegalImplications: result.Risk.LegalImplications,
			Recommendations:   result.Risk.Recommendations,
		},
		Methodology: Methodology{
			CorpusHash: result.CorpusHash,
			Layers: []string{
				"content fingerprinting and tiered duplicate classification",
				"per-date baseline comparison (names, numerics, similarity, metadata, timing)",
				"corpus-wide systematic pattern detection",
				"timeline and version-sequence validation",
				"pairwise cross-document inconsistency detection",
				"weighted risk aggregation",
			},
			Caveats: []string{
				"output is indicators with confidence scores, not legal conclusions",
				"documents without extractable text are absent from text-dependent evidence",
			},
		},
	}
}
