package ports

import (
	"context"

	"go.trai.ch/seek/internal/core/domain"
)

// MetadataExtractor produces the export list of a source file without executing it.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type MetadataExtractor interface {
	// Extract parses content. fileName selects the language by extension.
	// It returns domain.ErrUnsupportedLanguage for files it cannot handle.
	Extract(ctx context.Context, content []byte, fileName string) (*domain.ExportMetadata, error)
}
