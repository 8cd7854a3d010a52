package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-builder/internal/domain"
)

type countingRenderer struct {
	calls int
	err   error
}

func (r *countingRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-" + PreviewCacheKey(html)), nil
}

type mapCache struct {
	m      map[string][]byte
	setErr error
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	b, ok := c.m[key]
	return b, ok
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.m[key] = value
	return nil
}

func TestPrinter_CachesByContent(t *testing.T) {
	r := &countingRenderer{}
	p := NewPrinter(r, &mapCache{m: map[string][]byte{}}, nil)
	ctx := context.Background()
	d := fixtureDocument()

	first, cached, err := p.Print(ctx, d)
	if err != nil || cached {
		t.Fatalf("first print: cached=%v err=%v", cached, err)
	}
	second, cached, err := p.Print(ctx, d.Clone())
	if err != nil || !cached {
		t.Fatalf("second print of an equal document must hit the cache, cached=%v err=%v", cached, err)
	}
	if string(first) != string(second) || r.calls != 1 {
		t.Fatalf("expected a single render, got %d", r.calls)
	}

	_ = d.UpdateProfileField(domain.ProfileFullName, "Augusta Ada King")
	if _, cached, _ := p.Print(ctx, d); cached {
		t.Fatalf("an edit must change the cache key")
	}
}

func TestPrinter_CacheWriteFailureIsNonFatal(t *testing.T) {
	p := NewPrinter(&countingRenderer{}, &mapCache{m: map[string][]byte{}, setErr: errors.New("redis down")}, nil)
	pdf, _, err := p.Print(context.Background(), fixtureDocument())
	if err != nil || !strings.HasPrefix(string(pdf), "%PDF-") {
		t.Fatalf("expected pdf despite cache failure, err=%v", err)
	}
}

func TestPrinter_RendererError(t *testing.T) {
	p := NewPrinter(&countingRenderer{err: errors.New("chrome missing")}, nil, nil)
	if _, _, err := p.Print(context.Background(), fixtureDocument()); err == nil {
		t.Fatalf("expected renderer error")
	}
}
