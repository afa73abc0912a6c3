package analysis

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable the engine consumes: the subject-name
// watchlist, the scan vocabularies and the severity thresholds. Nothing in
// the engine itself is corpus-specific; all of this is passed in.
//
// The threshold defaults are empirically chosen values with no statistical
// derivation; treat them as starting points and override per case file.
type Config struct {
	// Watchlist is the fixed list of subject names whose mention counts are
	// compared between same-date document revisions.
	Watchlist []string `yaml:"watchlist"`

	Suppression SuppressionVocab `yaml:"suppression"`

	// WitnessVocab is the coaching/intimidation vocabulary for the witness
	// manipulation scan.
	WitnessVocab []string `yaml:"witness_vocab"`

	// AntonymPairs are opposing terms whose joint appearance across a
	// document pair is treated as a factual contradiction.
	AntonymPairs [][2]string `yaml:"antonym_pairs"`

	Thresholds Thresholds `yaml:"thresholds"`

	// PreviewLength and FirstPageLength bound the fingerprint content
	// preview and first-page hash input, in characters.
	PreviewLength   int `yaml:"preview_length"`
	FirstPageLength int `yaml:"first_page_length"`
}

// SuppressionVocab groups the four evidence-suppression sub-pattern
// vocabularies. Contradiction indicators only count when they occur at least
// ContradictionMinHits times in one document.
type SuppressionVocab struct {
	Omission             []string `yaml:"omission"`
	Minimization         []string `yaml:"minimization"`
	Contradiction        []string `yaml:"contradiction"`
	Redirection          []string `yaml:"redirection"`
	ContradictionMinHits int      `yaml:"contradiction_min_hits"`
}

// Thresholds are the engine's decision boundaries.
type Thresholds struct {
	// Duplicate classification (§ duplicate tier ordering).
	PartialSimilarity    float64 `yaml:"partial_similarity"`     // tier 4: preview jaccard
	DateSimilarityStrong float64 `yaml:"date_similarity_strong"` // date fallback, confident
	DateSimilarityWeak   float64 `yaml:"date_similarity_weak"`   // date fallback, manual review
	DateMinConfidence    int     `yaml:"date_min_confidence"`

	// Baseline comparison.
	NameDeltaHigh          int     `yaml:"name_delta_high"`
	NameDeltaCritical      int     `yaml:"name_delta_critical"`
	TextSimilarityHigh     float64 `yaml:"text_similarity_high"`     // below this is high
	TextSimilarityCritical float64 `yaml:"text_similarity_critical"` // below this is critical
	TimelineGapSeconds     int     `yaml:"timeline_gap_seconds"`

	// Systematic detection.
	CoordinationWindowHours  int `yaml:"coordination_window_hours"`
	ClusterMinVersions       int `yaml:"cluster_min_versions"`
	ClusterMinDocuments      int `yaml:"cluster_min_documents"`
	ClusterCriticalDocuments int `yaml:"cluster_critical_documents"`
	SuppressionMinHits       int `yaml:"suppression_min_hits"`
	SuppressionHighDocs      int `yaml:"suppression_high_docs"`
	SuppressionCriticalDocs  int `yaml:"suppression_critical_docs"`
	WitnessMinHits           int `yaml:"witness_min_hits"`
	StatusChangeMin          int `yaml:"status_change_min"`

	// Risk scoring.
	RiskCritical float64 `yaml:"risk_critical"`
	RiskHigh     float64 `yaml:"risk_high"`
	RiskModerate float64 `yaml:"risk_moderate"`
}

// DefaultConfig returns the engine defaults used when no config file is
// supplied.
func DefaultConfig() Config {
	return Config{
		Watchlist: []string{"Noel", "Andy Maki"},
		Suppression: SuppressionVocab{
			Omission:             []string{"omitted", "omission", "excluded", "left out", "not included"},
			Minimization:         []string{"minimized", "downplayed", "insignificant", "minor issue"},
			Contradiction:        []string{"however", "contrary to", "inconsistent with", "conflicts with"},
			Redirection:          []string{"redacted", "withheld", "sealed", "unavailable"},
			ContradictionMinHits: 2,
		},
		WitnessVocab: []string{
			"coached", "rehearsed", "told to say", "instructed to",
			"pressured", "intimidated", "recant", "change your story",
		},
		AntonymPairs: [][2]string{
			{"present", "absent"},
			{"yes", "no"},
			{"occurred", "did not occur"},
			{"signed", "unsigned"},
			{"approved", "denied"},
		},
		Thresholds: Thresholds{
			PartialSimilarity:    0.85,
			DateSimilarityStrong: 0.7,
			DateSimilarityWeak:   0.4,
			DateMinConfidence:    40,

			NameDeltaHigh:          2,
			NameDeltaCritical:      5,
			TextSimilarityHigh:     0.7,
			TextSimilarityCritical: 0.5,
			TimelineGapSeconds:     60,

			CoordinationWindowHours:  6,
			ClusterMinVersions:       3,
			ClusterMinDocuments:      3,
			ClusterCriticalDocuments: 5,
			SuppressionMinHits:       2,
			SuppressionHighDocs:      3,
			SuppressionCriticalDocs:  5,
			WitnessMinHits:           2,
			StatusChangeMin:          3,

			RiskCritical: 10,
			RiskHigh:     6,
			RiskModerate: 3,
		},
		PreviewLength:   500,
		FirstPageLength: 2000,
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults. An
// empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read analysis config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse analysis config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid analysis config: %w", err)
	}
	return cfg, nil
}

// Validate checks that overridden values still form a usable configuration.
func (c Config) Validate() error {
	// Required must accompany Min(1): ozzo skips Min for zero values, and a
	// zero length would silently disable the preview and first-page tiers.
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Watchlist, validation.Required),
		validation.Field(&c.WitnessVocab, validation.Required),
		validation.Field(&c.PreviewLength, validation.Required, validation.Min(1)),
		validation.Field(&c.FirstPageLength, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}

	t := c.Thresholds
	return validation.ValidateStruct(&t,
		validation.Field(&t.PartialSimilarity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&t.DateSimilarityStrong, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&t.DateSimilarityWeak, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&t.TextSimilarityHigh, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&t.TextSimilarityCritical, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&t.CoordinationWindowHours, validation.Required, validation.Min(1)),
		validation.Field(&t.ClusterMinVersions, validation.Required, validation.Min(1)),
		validation.Field(&t.ClusterMinDocuments, validation.Required, validation.Min(1)),
	)
}
