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

// PostgresVersionRepository implements the VersionRepository interface.
// The table is append-only; there are no UPDATE or DELETE paths.
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Append stores a new version record
func (r *PostgresVersionRepository) Append(ctx context.Context, v *models.DocumentVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, version, title, description, category,
			children, laws, include, placement, changed_by, changed_at,
			change_type, change_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.tables.Versions)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		v.ID,
		v.DocumentID,
		v.Version,
		v.Title,
		v.Description,
		v.Category,
		v.Children,
		v.Laws,
		v.Include,
		v.Placement,
		v.ChangedBy,
		v.ChangedAt,
		v.ChangeType,
		v.ChangeNotes,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("version %d of document %s already exists: %w", v.Version, v.DocumentID, domain.ErrConflict)
		}
		return fmt.Errorf("append version: %w", err)
	}

	return nil
}

// ListByDocument returns a document's versions ordered by version number ascending
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, version, title, description, category,
			children, laws, include, placement, changed_by, changed_at,
			change_type, change_notes
		FROM %s
		WHERE document_id = $1
		ORDER BY version
	`, r.tables.Versions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	return collectVersions(rows)
}

// ListAll returns every version record grouped by document, ordered by version
// number ascending within each group
func (r *PostgresVersionRepository) ListAll(ctx context.Context) (map[string][]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, version, title, description, category,
			children, laws, include, placement, changed_by, changed_at,
			change_type, change_notes
		FROM %s
		ORDER BY document_id, version
	`, r.tables.Versions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all versions: %w", err)
	}
	defer rows.Close()

	versions, err := collectVersions(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.DocumentVersion)
	for _, v := range versions {
		grouped[v.DocumentID] = append(grouped[v.DocumentID], v)
	}
	return grouped, nil
}

func collectVersions(rows pgx.Rows) ([]models.DocumentVersion, error) {
	versions := []models.DocumentVersion{}
	for rows.Next() {
		var v models.DocumentVersion
		err := rows.Scan(
			&v.ID,
			&v.DocumentID,
			&v.Version,
			&v.Title,
			&v.Description,
			&v.Category,
			&v.Children,
			&v.Laws,
			&v.Include,
			&v.Placement,
			&v.ChangedBy,
			&v.ChangedAt,
			&v.ChangeType,
			&v.ChangeNotes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read versions: %w", err)
	}

	return versions, nil
}
