package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/sspedowski/justice-document-pip-sub000/internal/domain/models"
)

// Corpus is the read-only snapshot an analysis run operates on. The engine
// never mutates it; re-running over an identical snapshot produces an
// identical result.
type Corpus struct {
	Documents []models.Document
	Versions  map[string][]models.DocumentVersion
}

// Hash derives a deterministic content hash of the snapshot, used to
// memoize analysis runs. It covers every input the engine reads: document
// identity, content hashes, timestamps and version records.
func (c *Corpus) Hash() string {
	lines := make([]string, 0, len(c.Documents))
	for i := range c.Documents {
		doc := &c.Documents[i]
		fileHash := ""
		if doc.Fingerprint != nil {
			fileHash = doc.Fingerprint.FileHash
		}
		line := fmt.Sprintf("d|%s|%s|%d|%d|%d|%s|%s",
			doc.ID, fileHash, doc.UploadedAt.UnixNano(), doc.LastModified.UnixNano(),
			doc.CurrentVersion, doc.Category, hashString(doc.Text()))
		lines = append(lines, line)

		for _, v := range c.Versions[doc.ID] {
			lines = append(lines, fmt.Sprintf("v|%s|%d|%d|%s|%t|%s",
				v.DocumentID, v.Version, v.ChangedAt.UnixNano(), v.Category, v.Include, v.ChangeType))
		}
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
