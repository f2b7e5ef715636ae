// Package extract defines the content-extraction collaborator contract.
// Production deployments put a managed OCR service behind this interface;
// the bundled implementation reads plain-text files.
package extract

import (
	"context"

	"github.com/ppiankov/claimlens/internal/model"
)

// Extractor turns a stored document into plain text
type Extractor interface {
	ExtractText(ctx context.Context, documentURI string, documentType model.DocumentType) (string, error)
}
