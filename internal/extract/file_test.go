package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
)

func TestFileExtractor_ReadsRelativeToRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "report.txt"), []byte("officer narrative"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewFileExtractor(dir)
	text, err := e.ExtractText(context.Background(), "file://report.txt", model.DocPoliceReport)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "officer narrative" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestFileExtractor_MissingDocument(t *testing.T) {
	e := NewFileExtractor(t.TempDir())
	_, err := e.ExtractText(context.Background(), "file://missing.txt", model.DocEstimate)
	if !fault.IsKind(err, fault.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestFileExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewFileExtractor(t.TempDir())
	_, err := e.ExtractText(ctx, "file://report.txt", model.DocPhotos)
	if !fault.IsKind(err, fault.Timeout) {
		t.Errorf("expected Timeout for cancelled context, got %v", err)
	}
}
