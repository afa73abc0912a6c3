// Package pdfextract pulls plain text out of uploaded PDF files using pdfcpu.
// It reads each page's decoded content stream and collects the arguments of
// the text-showing operators (Tj, TJ, ' and "). Layout is not reconstructed;
// the output is only meant for hashing, similarity scoring and vocabulary
// scans, where word order within a page is what matters.
package pdfextract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdf "github.com/pdfcpu/pdfcpu/pkg/pdfcpu"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/services"
)

type extractor struct{}

// New creates a pdfcpu-backed text extractor.
func New() services.TextExtractor {
	return extractor{}
}

func (extractor) Extract(ctx context.Context, data []byte, maxPages int) (*services.Extraction, error) {
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), api.LoadConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pageCount := pdfCtx.PageCount
	pages := pageCount
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for p := 1; p <= pages; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := pdf.ExtractPageContent(pdfCtx, p)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", p, err)
		}
		if r == nil {
			continue
		}

		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read page %d content: %w", p, err)
		}

		text := decodeTextOperators(content)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
	}

	return &services.Extraction{
		Text:      sb.String(),
		PageCount: pageCount,
		Metadata: services.ExtractionMetadata{
			Title:  pdfCtx.Title,
			Author: pdfCtx.Author,
		},
	}, nil
}

// decodeTextOperators walks a decoded content stream and concatenates the
// literal strings fed to text-showing operators. Hex strings and CID-encoded
// fonts are skipped; for the scanned filings this service handles, literal
// strings carry the searchable text.
func decodeTextOperators(content []byte) string {
	var sb strings.Builder
	i := 0
	for i < len(content) {
		switch content[i] {
		case '(':
			s, next := readLiteralString(content, i)
			if isTextShowOperator(content, next) {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
					sb.WriteString(" ")
				}
				sb.WriteString(s)
			}
			i = next
		case '[':
			s, next := readArrayStrings(content, i)
			if isTextShowOperator(content, next) && s != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
					sb.WriteString(" ")
				}
				sb.WriteString(s)
			}
			i = next
		default:
			i++
		}
	}
	return strings.TrimSpace(sb.String())
}

// readLiteralString consumes a PDF literal string starting at the opening
// parenthesis and returns its unescaped value plus the index just past the
// closing parenthesis. Balanced nested parentheses are part of the string.
func readLiteralString(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 < len(content) {
				sb.WriteByte(unescape(content[i+1]))
				i += 2
				continue
			}
			i++
		case '(':
			depth++
			if depth > 1 {
				sb.WriteByte(c)
			}
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

// readArrayStrings consumes a TJ array and joins its string elements,
// ignoring the interleaved kerning numbers.
func readArrayStrings(content []byte, start int) (string, int) {
	var sb strings.Builder
	i := start + 1
	for i < len(content) {
		switch content[i] {
		case '(':
			s, next := readLiteralString(content, i)
			sb.WriteString(s)
			i = next
		case ']':
			return sb.String(), i + 1
		default:
			i++
		}
	}
	return sb.String(), i
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return c
	}
}

// isTextShowOperator reports whether the next operator after pos is one of
// Tj, TJ, ' or ".
func isTextShowOperator(content []byte, pos int) bool {
	// Skip whitespace
	for pos < len(content) && (content[pos] == ' ' || content[pos] == '\n' || content[pos] == '\r' || content[pos] == '\t') {
		pos++
	}
	if pos >= len(content) {
		return false
	}
	switch content[pos] {
	case '\'', '"':
		return true
	case 'T':
		return pos+1 < len(content) && (content[pos+1] == 'j' || content[pos+1] == 'J')
	}
	return false
}
