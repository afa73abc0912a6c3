// Package analysis implements the document-integrity engine: content
// fingerprinting, tiered duplicate classification, per-date baseline
// comparison, corpus-wide systematic pattern detection and risk scoring.
//
// Everything in this package is a pure, CPU-bound transformation over an
// explicit corpus snapshot. There is no shared mutable state inside the
// engine; watchlists, vocabularies and thresholds all arrive through Config.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/repositories"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/services"
)

// Service loads the corpus snapshot from the store and runs the full
// analysis. Results are memoized by corpus content hash: an unchanged
// corpus returns the identical cached result.
type Service struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	cfg         Config
	logger      *slog.Logger

	mu         sync.Mutex
	cachedHash string
	cached     *models.AnalysisResult
}

// NewService creates the analysis service.
func NewService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	cfg Config,
	logger *slog.Logger,
) services.AnalysisService {
	return &Service{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run executes one full analysis over the current corpus. Cancellation via
// ctx discards partial work; no intermediate state is observable.
func (s *Service) Run(ctx context.Context) (*models.AnalysisResult, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	versions, err := s.versionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load version history: %w", err)
	}

	corpus := &Corpus{Documents: docs, Versions: versions}
	hash := corpus.Hash()

	s.mu.Lock()
	if s.cachedHash == hash && s.cached != nil {
		result := s.cached
		s.mu.Unlock()
		s.logger.Debug("analysis cache hit", "corpus_hash", hash)
		return result, nil
	}
	s.mu.Unlock()

	started := time.Now()
	result, err := Analyze(ctx, corpus, s.cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cachedHash = hash
	s.cached = result
	s.mu.Unlock()

	s.logger.Info("analysis run complete",
		"documents", len(docs),
		"date_groups", len(result.DateGroups),
		"patterns", len(result.Systematic.Patterns),
		"risk", result.Risk.OverallRisk,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}

// Analyze runs every engine layer over the snapshot. It is the pure core of
// the service: no store access, no caching, no clock reads beyond stamping
// the output.
func Analyze(ctx context.Context, corpus *Corpus, cfg Config) (*models.AnalysisResult, error) {
	comparator := NewBaselineComparator(cfg)
	detector := NewDetector(cfg)
	assessor := NewAssessor(cfg)

	dateGroups := comparator.CompareByDate(corpus.Documents)

	systematic, err := detector.Detect(ctx, corpus.Documents, corpus.Versions)
	if err != nil {
		return nil, err
	}

	risk := assessor.Assess(systematic, dateGroups)

	return &models.AnalysisResult{
		CorpusHash:    corpus.Hash(),
		GeneratedAt:   time.Now().UTC(),
		DocumentCount: len(corpus.Documents),
		DateGroups:    dateGroups,
		Systematic:    systematic,
		Risk:          risk,
	}, nil
}
