package analysis

import (
	"strings"
	"testing"
	"time"
)

func TestFingerprintDeterministic(t *testing.T) {
	f := NewFingerprinter(DefaultConfig())
	data := []byte("%PDF-1.4 fake body")
	ts := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	a := f.Fingerprint("report.pdf", data, "Report text.", 3, ts)
	b := f.Fingerprint("report.pdf", data, "Report text.", 3, ts)
	if a != b {
		t.Fatalf("identical inputs produced different fingerprints:\n%+v\n%+v", a, b)
	}
}

func TestFingerprintBitFlipChangesHash(t *testing.T) {
	f := NewFingerprinter(DefaultConfig())
	ts := time.Now()

	data := []byte("original bytes")
	flipped := append([]byte(nil), data...)
	flipped[0] ^= 1

	a := f.Fingerprint("a.pdf", data, "", 0, ts)
	b := f.Fingerprint("a.pdf", flipped, "", 0, ts)
	if a.FileHash == b.FileHash {
		t.Error("single flipped bit did not change file hash")
	}
	if a.FileSize != b.FileSize {
		t.Error("file size should be unchanged by a bit flip")
	}
}

func TestFingerprintFirstPageHash(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFingerprinter(cfg)
	ts := time.Now()

	// Same leading text, divergent appendix past the first-page window:
	// first-page hashes must still agree while full hashes differ.
	front := strings.Repeat("shared first page text ", 200)
	a := f.Fingerprint("a.pdf", []byte("file-a"), front+" appendix one", 2, ts)
	b := f.Fingerprint("b.pdf", []byte("file-b"), front+" appendix two", 5, ts)

	if a.FirstPageHash != b.FirstPageHash {
		t.Error("documents sharing the first-page window should share first-page hash")
	}
	if a.FileHash == b.FileHash {
		t.Error("different bytes produced the same file hash")
	}
}

func TestFingerprintPreview(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFingerprinter(cfg)

	long := strings.Repeat("Word ", 400)
	fp := f.Fingerprint("a.pdf", []byte("x"), long, 1, time.Now())

	if got := len([]rune(fp.ContentPreview)); got > cfg.PreviewLength {
		t.Errorf("preview length %d exceeds configured cap %d", got, cfg.PreviewLength)
	}
	if strings.Contains(fp.ContentPreview, "Word") {
		t.Error("preview was not lowercased")
	}
	if !strings.Contains(fp.ContentPreview, "word") {
		t.Error("preview lost its content")
	}
}

func TestFingerprintNoText(t *testing.T) {
	f := NewFingerprinter(DefaultConfig())
	fp := f.Fingerprint("scan.pdf", []byte("binary"), "", 4, time.Now())

	if fp.FirstPageHash != "" || fp.ContentPreview != "" {
		t.Error("text-derived fields must be empty when extraction produced no text")
	}
	if fp.FileHash == "" {
		t.Error("file hash must always be computed")
	}
	if fp.PageCount != 4 {
		t.Errorf("page count = %d, want 4", fp.PageCount)
	}
}
