package treesitter

import (
	"context"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataExtractor = (*Extractor)(nil)

// Extractor implements ports.MetadataExtractor for JavaScript, TypeScript,
// Python and Go using static parsing only.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supports reports whether fileName has a grammar.
func (e *Extractor) Supports(fileName string) bool {
	return grammarFor(fileName) != nil
}

// Extract parses content and returns its exports. The parse is abandoned
// when ctx is done.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (*domain.ExportMetadata, error) {
	g := grammarFor(fileName)
	if g == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedLanguage, "no grammar for file"), "file", fileName)
	}

	tree, err := g.parse(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, zerr.With(zerr.Wrap(ctx.Err(), domain.ErrExtractionTimeout.Error()), "file", fileName)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "file", fileName)
	}
	defer tree.Close()

	meta := g.extract(tree.RootNode(), content)
	meta.Language = g.language
	return meta, nil
}
