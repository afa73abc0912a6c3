package domain

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrUnreadableFile = errors.New("file unreadable")
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// DuplicateError signals that an upload was classified as a duplicate of a
// document already on file. It carries the classifier verdict so handlers can
// return the match detail alongside the 409.
type DuplicateError struct {
	Verdict models.DuplicateResult
}

func (e *DuplicateError) Error() string {
	matched := "unknown"
	if e.Verdict.Matched != nil {
		matched = e.Verdict.Matched.ID
	}
	return fmt.Sprintf("duplicate of document %s (%s, confidence %d): %s",
		matched, e.Verdict.MatchType, e.Verdict.Confidence, e.Verdict.Reason)
}

func (e *DuplicateError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *DuplicateError) Is(target error) bool {
	return target == ErrConflict
}
