package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"

	"resume-builder/internal/domain"
)

type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type PDFCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Printer prints the preview of a document at full page size. Identical
// preview HTML is printed once and then served from the cache.
type Printer struct {
	renderer PDFRenderer
	cache    PDFCache
	logger   *log.Logger
}

func NewPrinter(renderer PDFRenderer, cache PDFCache, logger *log.Logger) *Printer {
	if logger == nil {
		logger = log.Default()
	}
	return &Printer{renderer: renderer, cache: cache, logger: logger}
}

// PreviewCacheKey derives the cache key from the rendered HTML.
func PreviewCacheKey(html string) string {
	sum := sha256.Sum256([]byte(html))
	return "preview:pdf:" + hex.EncodeToString(sum[:])
}

// Print returns the PDF bytes and whether they came from the cache.
func (p *Printer) Print(ctx context.Context, doc *domain.Document) ([]byte, bool, error) {
	html, err := RenderHTML(Project(doc), 1)
	if err != nil {
		return nil, false, err
	}
	key := PreviewCacheKey(html)

	if p.cache != nil {
		if b, ok := p.cache.Get(ctx, key); ok {
			return b, true, nil
		}
	}

	pdf, err := p.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, false, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, pdf); err != nil {
			p.logger.Printf("[Cache] unable to store preview pdf (non-fatal): %v", err)
		}
	}
	return pdf, false, nil
}
