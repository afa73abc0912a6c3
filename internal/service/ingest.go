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
	"github.com/sspedowski/justice-document-pip-sub000/internal/service/analysis"
)

// ingestService runs the upload pipeline. Each ingest classifies the new
// file against a read-only corpus snapshot; concurrent ingests share no
// mutable analyzer state.
type ingestService struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	txManager   repositories.TransactionManager
	extractor   services.TextExtractor
	blobs       services.BlobStore
	printer     *analysis.Fingerprinter
	classifier  *analysis.Classifier
	logger      *slog.Logger
}

// NewIngestService creates the ingestion pipeline service.
func NewIngestService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	txManager repositories.TransactionManager,
	extractor services.TextExtractor,
	blobs services.BlobStore,
	cfg analysis.Config,
	logger *slog.Logger,
) services.IngestService {
	return &ingestService{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		txManager:   txManager,
		extractor:   extractor,
		blobs:       blobs,
		printer:     analysis.NewFingerprinter(cfg),
		classifier:  analysis.NewClassifier(cfg),
		logger:      logger,
	}
}

// Ingest fingerprints the upload, extracts text, classifies it against the
// corpus and, when it is not a duplicate, persists the document with its
// created-version record and raw bytes.
func (s *ingestService) Ingest(ctx context.Context, req *services.IngestRequest) (*services.IngestResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnreadableFile, req.FileName)
	}

	// Text extraction may fail; the document then proceeds with no text and
	// every text-dependent layer degrades gracefully.
	var text string
	pageCount := 0
	var meta services.ExtractionMetadata
	extraction, err := s.extractor.Extract(ctx, req.Data, config.MaxExtractPages)
	if err != nil {
		s.logger.Warn("text extraction failed, continuing without text",
			"file", req.FileName, "error", err)
	} else {
		text = extraction.Text
		pageCount = extraction.PageCount
		meta = extraction.Metadata
	}

	now := time.Now().UTC()
	fp := s.printer.Fingerprint(req.FileName, req.Data, text, pageCount, now)

	corpus, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	date, _ := analysis.ExtractDate(text, req.FileName)
	verdict := s.classifier.Classify(fp, date, corpus)
	if verdict.IsDuplicate {
		s.logger.Info("duplicate upload rejected",
			"file", req.FileName,
			"match_type", verdict.MatchType,
			"confidence", verdict.Confidence,
		)
		return nil, &domain.DuplicateError{Verdict: verdict}
	}

	doc := s.buildDocument(req, &fp, text, meta, now)

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Append(txCtx, doc); err != nil {
			return err
		}
		v := models.Snapshot(doc)
		v.ID = uuid.NewString()
		v.Version = 1
		v.ChangedBy = req.UploadedBy
		v.ChangedAt = now
		v.ChangeType = models.ChangeCreated
		return s.versionRepo.Append(txCtx, &v)
	})
	if err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}

	// The blob write sits outside the transaction; a stored document with a
	// missing blob is recoverable, the reverse is not.
	if err := s.blobs.Put(ctx, doc.ID, req.Data, "application/pdf"); err != nil {
		s.logger.Error("failed to store original file bytes",
			"document_id", doc.ID, "error", err)
	}

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"file", req.FileName,
		"pages", pageCount,
		"has_text", text != "",
		"extracted_date", date,
	)
	return &services.IngestResult{Document: doc, Duplicate: verdict}, nil
}

func (s *ingestService) buildDocument(req *services.IngestRequest, fp *models.Fingerprint, text string, meta services.ExtractionMetadata, now time.Time) *models.Document {
	title := meta.Title
	if title == "" {
		title = req.FileName
	}

	doc := &models.Document{
		ID:             uuid.NewString(),
		FileName:       req.FileName,
		Title:          title,
		Category:       models.CategoryNo,
		Include:        false,
		UploadedAt:     now,
		LastModified:   now,
		LastModifiedBy: req.UploadedBy,
		CurrentVersion: 1,
		Fingerprint:    fp,
	}
	if text != "" {
		truncated := text
		if len(truncated) > config.MaxTextContentLength {
			truncated = truncated[:config.MaxTextContentLength]
		}
		doc.TextContent = &truncated
	}
	return doc
}

func (s *ingestService) validateRequest(req *services.IngestRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.FileName, validation.Required, validation.Length(1, config.MaxFileNameLength)),
		validation.Field(&req.UploadedBy, validation.Required),
	)
}
