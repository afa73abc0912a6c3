package models

import (
	"time"
)

// Severity grades a single tampering flag or anomaly.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskLevel grades the corpus-wide aggregate.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// FlagType identifies the check that produced a tampering flag.
type FlagType string

const (
	FlagNameAlteration        FlagType = "name_alteration"
	FlagNumericChange         FlagType = "numeric_change"
	FlagTextDivergence        FlagType = "text_divergence"
	FlagMetadataChange        FlagType = "metadata_change"
	FlagTimelineInconsistency FlagType = "timeline_inconsistency"
)

// TamperingFlag is a single indicator of possible alteration found by the
// per-date baseline comparison. Flags are regenerated on every analysis run
// and never persisted.
type TamperingFlag struct {
	Type              FlagType `json:"type"`
	Severity          Severity `json:"severity"`
	Confidence        float64  `json:"confidence"`
	Description       string   `json:"description"`
	Evidence          []string `json:"evidence"`
	AffectedDocuments []string `json:"affected_documents"`
}

// NameDelta records a change in watchlist-name mention counts between a
// baseline document and a later document sharing its date.
type NameDelta struct {
	Name          string `json:"name"`
	BaselineCount int    `json:"baseline_count"`
	CompareCount  int    `json:"compare_count"`
	Delta         int    `json:"delta"`
}

// NumericDiff lists numeric tokens that appear on only one side of a
// baseline comparison.
type NumericDiff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// DateGroupReport is the baseline comparison result for one extracted date.
// Documents is ordered baseline first.
type DateGroupReport struct {
	Date              string          `json:"date"`
	DocumentCount     int             `json:"document_count"`
	SuspiciousChanges int             `json:"suspicious_changes"`
	Flags             []TamperingFlag `json:"flags"`
	NameDeltas        []NameDelta     `json:"name_deltas"`
	NumericDiffs      []NumericDiff   `json:"numeric_diffs"`
	Documents         []DocumentRef   `json:"documents"`
}

// PatternType identifies a corpus-wide systematic pattern.
type PatternType string

const (
	PatternCoordinatedAlteration PatternType = "coordinated_alteration"
	PatternEvidenceSuppression   PatternType = "evidence_suppression"
	PatternWitnessManipulation   PatternType = "witness_manipulation"
	PatternTimelineManipulation  PatternType = "timeline_manipulation"
	PatternStatusChanges         PatternType = "status_changes"
)

// SystematicPattern aggregates many individual signals into one corpus-wide
// finding. Confidence is 0..1 at this layer.
type SystematicPattern struct {
	Type              PatternType `json:"type"`
	Severity          Severity    `json:"severity"`
	Confidence        float64     `json:"confidence"`
	Description       string      `json:"description"`
	Evidence          []string    `json:"evidence"`
	AffectedDocuments []string    `json:"affected_documents"`
}

// AnomalyType identifies a timeline anomaly.
type AnomalyType string

const (
	AnomalyBackdated         AnomalyType = "backdated"
	AnomalySequenceViolation AnomalyType = "sequence_violation"
)

// TimelineAnomaly is a single implausibility in a document's recorded
// timestamps or version sequence.
type TimelineAnomaly struct {
	Type        AnomalyType `json:"type"`
	DocumentID  string      `json:"document_id"`
	Severity    Severity    `json:"severity"`
	Confidence  float64     `json:"confidence"`
	Description string      `json:"description"`
}

// InconsistencyType identifies a pairwise cross-document inconsistency.
type InconsistencyType string

const (
	InconsistencyContradiction    InconsistencyType = "contradiction"
	InconsistencyDateMismatch     InconsistencyType = "date_mismatch"
	InconsistencyCategoryMismatch InconsistencyType = "category_mismatch"
)

// Inconsistency is a pairwise finding between two documents.
type Inconsistency struct {
	Type        InconsistencyType `json:"type"`
	Severity    Severity          `json:"severity"`
	Documents   [2]string         `json:"documents"`
	Description string            `json:"description"`
	Evidence    []string          `json:"evidence"`
}

// SystematicAnalysis is the full output of the corpus-wide detector.
type SystematicAnalysis struct {
	Patterns          []SystematicPattern `json:"patterns"`
	TimelineAnomalies []TimelineAnomaly   `json:"timeline_anomalies"`
	Inconsistencies   []Inconsistency     `json:"inconsistencies"`
}

// LegalImplication maps detected patterns onto a potential legal issue.
// Indicators only: the engine never states conclusions.
type LegalImplication struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// RiskAssessment aggregates all analysis layers into one scored verdict.
type RiskAssessment struct {
	OverallRisk         RiskLevel          `json:"overall_risk"`
	Score               float64            `json:"score"`
	Confidence          float64            `json:"confidence"`
	PatternCount        int                `json:"pattern_count"`
	AnomalyCount        int                `json:"anomaly_count"`
	InconsistencyCount  int                `json:"inconsistency_count"`
	NameAlterationCount int                `json:"name_alteration_count"`
	SuppressionCount    int                `json:"suppression_count"`
	HighRiskDocuments   []string           `json:"high_risk_documents"`
	LegalImplications   []LegalImplication `json:"legal_implications"`
	Recommendations     []string           `json:"recommendations"`
	Summary             string             `json:"summary"`
}

// AnalysisResult is the complete, reproducible output of one analysis run
// over a corpus snapshot.
type AnalysisResult struct {
	CorpusHash    string             `json:"corpus_hash"`
	GeneratedAt   time.Time          `json:"generated_at"`
	DocumentCount int                `json:"document_count"`
	DateGroups    []DateGroupReport  `json:"date_groups"`
	Systematic    SystematicAnalysis `json:"systematic"`
	Risk          RiskAssessment     `json:"risk"`
}
