package repositories

import (
	"context"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// DocumentRepository defines data access for case documents. The store is
// append-and-update only: documents are never deleted.
type DocumentRepository interface {
	// Append stores a new document.
	Append(ctx context.Context, doc *models.Document) error

	// Update replaces the mutable fields of an existing document.
	Update(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// List returns every document on file, fingerprints included.
	List(ctx context.Context) ([]models.Document, error)
}

// VersionRepository defines data access for the immutable version audit
// trail. Versions are append-only: never updated, never deleted.
type VersionRepository interface {
	// Append stores a new version record.
	Append(ctx context.Context, v *models.DocumentVersion) error

	// ListByDocument returns a document's versions ordered by version number
	// ascending.
	ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error)

	// ListAll returns every version record in the store, grouped by document
	// and ordered by version number ascending within each group.
	ListAll(ctx context.Context) (map[string][]models.DocumentVersion, error)
}
