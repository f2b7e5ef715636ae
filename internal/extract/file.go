package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
)

// FileExtractor reads document text from the local filesystem. URIs are
// paths, optionally prefixed with file://.
type FileExtractor struct {
	root string
}

// NewFileExtractor creates an extractor rooted at dir. An empty dir means
// URIs are absolute or relative to the working directory.
func NewFileExtractor(dir string) *FileExtractor {
	return &FileExtractor{root: dir}
}

// ExtractText reads the document contents as UTF-8 text.
func (e *FileExtractor) ExtractText(ctx context.Context, documentURI string, documentType model.DocumentType) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fault.Wrap(fault.Timeout, err, "extract %s", documentURI)
	}

	path := strings.TrimPrefix(documentURI, "file://")
	if e.root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.root, path)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", fault.New(fault.NotFound, "document %s not found", documentURI)
	}
	if err != nil {
		return "", fault.Wrap(fault.UpstreamUnavailable, err, "read document %s", documentURI)
	}
	return string(data), nil
}
