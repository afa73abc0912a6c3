package services

import (
	"context"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// AnalysisService runs the full tampering analysis over the current corpus.
// Runs are pure over the corpus snapshot: the same stored documents and
// versions always produce an identical result. Results are memoized by
// corpus content hash; cancellation discards partial work without leaving
// any observable intermediate state.
type AnalysisService interface {
	// Run loads the corpus snapshot and returns the complete analysis.
	Run(ctx context.Context) (*models.AnalysisResult, error)
}
