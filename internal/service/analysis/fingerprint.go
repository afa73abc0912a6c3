package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// Fingerprinter derives the content-addressable identity of an uploaded
// file: a whole-file hash, a hash of the substantive first page of text, and
// a normalized preview for fuzzy matching. Deterministic and side-effect
// free.
type Fingerprinter struct {
	cfg Config
}

func NewFingerprinter(cfg Config) *Fingerprinter {
	return &Fingerprinter{cfg: cfg}
}

// Fingerprint computes the identity for raw file bytes plus extracted text.
// text may be empty when extraction failed; the first-page hash and preview
// are then empty and only byte-level tiers can match.
func (f *Fingerprinter) Fingerprint(fileName string, data []byte, text string, pageCount int, lastModified time.Time) models.Fingerprint {
	fp := models.Fingerprint{
		FileName:     fileName,
		FileSize:     int64(len(data)),
		FileHash:     hashBytes(data),
		PageCount:    pageCount,
		LastModified: lastModified.UTC(),
	}

	if text != "" {
		// Hash only the first page worth of text so a later-page change
		// (an added appendix) still matches on the substantive front matter.
		fp.FirstPageHash = hashString(truncate(text, f.cfg.FirstPageLength))
		fp.ContentPreview = truncate(normalizeText(text), f.cfg.PreviewLength)
	}

	return fp
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hashString(s string) string {
	return hashBytes([]byte(s))
}
