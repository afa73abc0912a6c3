package analysis

import (
	"fmt"
	"math"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// Classifier compares a new fingerprint against the existing corpus and
// returns a tiered duplicate verdict. The tier order is a contract:
// confidence strictly decreases down the tiers and the first matching tier
// wins. Classification is pure: the same corpus and inputs always produce an
// identical result.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify runs the tier cascade for one upload attempt. extractedDate is
// the ISO date recovered for the new file ("" when none) and corpus is a
// read-only snapshot of the documents already on file.
func (c *Classifier) Classify(fp models.Fingerprint, extractedDate string, corpus []models.Document) models.DuplicateResult {
	// Tier 1: whole-file hash equality.
	for i := range corpus {
		doc := &corpus[i]
		if doc.Fingerprint == nil {
			continue
		}
		if doc.Fingerprint.FileHash == fp.FileHash {
			return models.DuplicateResult{
				IsDuplicate: true,
				MatchType:   models.MatchExact,
				Confidence:  100,
				Matched:     ref(doc),
				Reason:      "identical file content (hash match)",
			}
		}
	}

	// Tier 2: same name, same size - a byte-identical copy re-saved under a
	// path that changed its metadata, or an exact re-upload.
	for i := range corpus {
		doc := &corpus[i]
		if doc.Fingerprint == nil {
			continue
		}
		if doc.Fingerprint.FileName == fp.FileName && doc.Fingerprint.FileSize == fp.FileSize {
			return models.DuplicateResult{
				IsDuplicate: true,
				MatchType:   models.MatchRename,
				Confidence:  95,
				Matched:     ref(doc),
				Reason:      "same file name and size",
			}
		}
	}

	// Tier 3: first-page hash - later pages may differ (added appendix) but
	// the substantive first page is identical.
	if fp.FirstPageHash != "" {
		for i := range corpus {
			doc := &corpus[i]
			if doc.Fingerprint == nil || doc.Fingerprint.FirstPageHash == "" {
				continue
			}
			if doc.Fingerprint.FirstPageHash == fp.FirstPageHash {
				return models.DuplicateResult{
					IsDuplicate: true,
					MatchType:   models.MatchContent,
					Confidence:  90,
					Matched:     ref(doc),
					Reason:      "identical first page content",
				}
			}
		}
	}

	// Tier 4: preview word-set similarity.
	if fp.ContentPreview != "" {
		newWords := wordSet(fp.ContentPreview)
		for i := range corpus {
			doc := &corpus[i]
			if doc.Fingerprint == nil || doc.Fingerprint.ContentPreview == "" {
				continue
			}
			sim := jaccard(newWords, wordSet(doc.Fingerprint.ContentPreview))
			if sim > c.cfg.Thresholds.PartialSimilarity {
				return models.DuplicateResult{
					IsDuplicate: true,
					MatchType:   models.MatchPartial,
					Confidence:  roundPct(sim),
					Matched:     ref(doc),
					Reason:      fmt.Sprintf("content preview %d%% similar", roundPct(sim)),
				}
			}
		}
	}

	// Tier 5: same size and page count. A zero page count means extraction
	// produced nothing, so two equally-sized unreadable files never match on
	// this tier alone.
	for i := range corpus {
		doc := &corpus[i]
		if doc.Fingerprint == nil {
			continue
		}
		if doc.Fingerprint.FileSize == fp.FileSize && doc.Fingerprint.PageCount == fp.PageCount && fp.PageCount > 0 {
			return models.DuplicateResult{
				IsDuplicate: true,
				MatchType:   models.MatchPartial,
				Confidence:  60,
				Matched:     ref(doc),
				Reason:      "same file size and page count",
			}
		}
	}

	// Tier 6: date-based fallback against same-date siblings.
	if extractedDate != "" {
		if res, ok := c.classifyByDate(fp, extractedDate, corpus); ok {
			return res
		}
	}

	return models.DuplicateResult{
		IsDuplicate: false,
		MatchType:   models.MatchNone,
		Confidence:  0,
		Reason:      "no matching document on file",
	}
}

func (c *Classifier) classifyByDate(fp models.Fingerprint, date string, corpus []models.Document) (models.DuplicateResult, bool) {
	var siblings []models.DocumentRef
	var best *models.Document
	bestSim := 0.0

	newWords := wordSet(fp.ContentPreview)
	for i := range corpus {
		doc := &corpus[i]
		docDate, ok := ExtractDate(doc.Text(), doc.FileName)
		if !ok || docDate != date {
			continue
		}
		siblings = append(siblings, *ref(doc))

		if doc.Fingerprint == nil || doc.Fingerprint.ContentPreview == "" || fp.ContentPreview == "" {
			continue
		}
		sim := jaccard(newWords, wordSet(doc.Fingerprint.ContentPreview))
		if sim > bestSim {
			bestSim = sim
			best = doc
		}
	}

	if len(siblings) == 0 {
		return models.DuplicateResult{}, false
	}

	match := models.DateMatch{
		Date:           date,
		Siblings:       siblings,
		BestSimilarity: bestSim,
	}

	if bestSim > c.cfg.Thresholds.DateSimilarityStrong {
		return models.DuplicateResult{
			IsDuplicate: true,
			MatchType:   models.MatchDateBased,
			Confidence:  roundPct(bestSim),
			Matched:     ref(best),
			Reason:      fmt.Sprintf("same date %s with %d%% similar content", date, roundPct(bestSim)),
			DateMatch:   &match,
		}, true
	}

	if len(siblings) >= 2 || bestSim > c.cfg.Thresholds.DateSimilarityWeak {
		match.RequiresManualReview = true
		conf := roundPct(bestSim)
		if conf < c.cfg.Thresholds.DateMinConfidence {
			conf = c.cfg.Thresholds.DateMinConfidence
		}
		res := models.DuplicateResult{
			IsDuplicate: true,
			MatchType:   models.MatchDateBased,
			Confidence:  conf,
			Reason:      fmt.Sprintf("%d documents already on file for %s; manual comparison required", len(siblings), date),
			DateMatch:   &match,
		}
		if best != nil {
			res.Matched = ref(best)
		}
		return res, true
	}

	return models.DuplicateResult{}, false
}

func ref(doc *models.Document) *models.DocumentRef {
	return &models.DocumentRef{ID: doc.ID, FileName: doc.FileName, Title: doc.Title}
}

func roundPct(sim float64) int {
	return int(math.Round(sim * 100))
}
