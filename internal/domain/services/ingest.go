package services

import (
	"context"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// IngestRequest carries one uploaded file through the ingestion pipeline.
type IngestRequest struct {
	FileName   string
	Data       []byte
	UploadedBy string
}

// IngestResult is the outcome of an accepted ingest. Duplicate carries the
// classifier verdict for the stored file; rejected duplicates surface as a
// *domain.DuplicateError instead of a result.
type IngestResult struct {
	Document  *models.Document       `json:"document,omitempty"`
	Duplicate models.DuplicateResult `json:"duplicate"`
}

// IngestService runs the upload pipeline: fingerprint, text extraction, date
// extraction, duplicate classification and, for accepted files, persistence
// of the document, its created-version record and its raw bytes.
// Each call classifies against a read-only corpus snapshot; concurrent
// ingests do not share mutable analyzer state.
type IngestService interface {
	Ingest(ctx context.Context, req *IngestRequest) (*IngestResult, error)
}

// DocumentService exposes read and mutate operations over stored documents.
// Every mutation appends an immutable DocumentVersion and bumps the
// document's CurrentVersion; nothing is ever deleted.
type DocumentService interface {
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	Versions(ctx context.Context, documentID string) ([]models.DocumentVersion, error)
	Update(ctx context.Context, id, changedBy string, req *models.UpdateDocumentRequest) (*models.Document, error)
}
