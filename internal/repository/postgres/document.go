package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface.
// Placement and fingerprint are stored as JSONB; children and laws as text
// arrays.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Append stores a new document
func (r *PostgresDocumentRepository) Append(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, file_name, title, description, text_content, category,
			children, laws, include, placement, uploaded_at, last_modified,
			last_modified_by, current_version, fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, r.tables.Documents)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		doc.ID,
		doc.FileName,
		doc.Title,
		doc.Description,
		doc.TextContent,
		doc.Category,
		doc.Children,
		doc.Laws,
		doc.Include,
		doc.Placement,
		doc.UploadedAt,
		doc.LastModified,
		doc.LastModifiedBy,
		doc.CurrentVersion,
		doc.Fingerprint,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("document %s already exists: %w", doc.ID, domain.ErrConflict)
		}
		return fmt.Errorf("append document: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of an existing document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, category = $3, children = $4, laws = $5,
			include = $6, placement = $7, last_modified = $8, last_modified_by = $9,
			current_version = $10
		WHERE id = $11
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		doc.Title,
		doc.Description,
		doc.Category,
		doc.Children,
		doc.Laws,
		doc.Include,
		doc.Placement,
		doc.LastModified,
		doc.LastModifiedBy,
		doc.CurrentVersion,
		doc.ID,
	)

	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, file_name, title, description, text_content, category,
			children, laws, include, placement, uploaded_at, last_modified,
			last_modified_by, current_version, fingerprint
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	doc, err := scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// List returns every document on file
func (r *PostgresDocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, file_name, title, description, text_content, category,
			children, laws, include, placement, uploaded_at, last_modified,
			last_modified_by, current_version, fingerprint
		FROM %s
		ORDER BY uploaded_at, id
	`, r.tables.Documents)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return docs, nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.FileName,
		&doc.Title,
		&doc.Description,
		&doc.TextContent,
		&doc.Category,
		&doc.Children,
		&doc.Laws,
		&doc.Include,
		&doc.Placement,
		&doc.UploadedAt,
		&doc.LastModified,
		&doc.LastModifiedBy,
		&doc.CurrentVersion,
		&doc.Fingerprint,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
