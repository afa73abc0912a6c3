package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/sspedowski/justice-document-pip-sub000/internal/config"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/repositories"
	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/services"
)

type documentService struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *documentService) Get(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	docs, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Versions(ctx context.Context, id string) ([]models.DocumentVersion, error) {
	// Confirm the document exists so a bad ID reads as not-found rather
	// than an empty history.
	if _, err := s.docRepo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	versions, err := s.versionRepo.ListByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// Update applies a partial edit to a document and appends an immutable
// edited-version snapshot. Prior snapshots are never rewritten.
func (s *documentService) Update(ctx context.Context, id, changedBy string, req *models.UpdateDocumentRequest) (*models.Document, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	applyUpdate(doc, req)
	doc.CurrentVersion++
	now := time.Now().UTC()
	doc.LastModified = now
	doc.LastModifiedBy = changedBy

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return err
		}
		v := models.Snapshot(doc)
		v.ID = uuid.NewString()
		v.Version = doc.CurrentVersion
		v.ChangedBy = changedBy
		v.ChangedAt = now
		v.ChangeType = models.ChangeEdited
		v.ChangeNotes = req.ChangeNotes
		return s.versionRepo.Append(txCtx, &v)
	})
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	s.logger.Info("document updated",
		"document_id", doc.ID,
		"version", doc.CurrentVersion,
		"changed_by", changedBy,
	)
	return doc, nil
}

func applyUpdate(doc *models.Document, req *models.UpdateDocumentRequest) {
	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Category != nil {
		doc.Category = *req.Category
	}
	if req.Children != nil {
		doc.Children = req.Children
	}
	if req.Laws != nil {
		doc.Laws = req.Laws
	}
	if req.Include != nil {
		doc.Include = *req.Include
	}
	if req.Placement != nil {
		doc.Placement = *req.Placement
	}
}

func (s *documentService) validateUpdateRequest(req *models.UpdateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.When(req.Title != nil,
			validation.By(func(interface{}) error {
				return validation.Validate(*req.Title, validation.Required, validation.Length(1, config.MaxTitleLength))
			}))),
		validation.Field(&req.Category, validation.When(req.Category != nil,
			validation.By(func(interface{}) error {
				return validation.Validate(string(*req.Category), validation.In(
					string(models.CategoryPrimary),
					string(models.CategorySupporting),
					string(models.CategoryExternal),
					string(models.CategoryNo),
				))
			}))),
	)
}
