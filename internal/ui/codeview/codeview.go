// Package codeview renders the generated contract as a highlighted code
// block. Renders are memoised per width and markdown style.
package codeview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/chaindemo/internal/cachemanager"
	"github.com/zjrosen/chaindemo/internal/log"
)

// noMarginStyle removes document margins so the block sits flush in a pane.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	},
	"code_block": {
		"margin": 0
	}
}`

// CacheTTL is how long a render stays cached without being read.
const CacheTTL = 10 * time.Minute

// Key identifies one cached render.
type Key string

type request struct {
	width int
	style string
}

func keyFor(req request) Key {
	return Key(fmt.Sprintf("contract:%d:%s", req.width, req.style))
}

// Renderer renders ContractSource through glamour.
type Renderer struct {
	mu    sync.Mutex
	style string
	cache *cachemanager.ReadThroughCache[Key, string, request]
}

// New creates a renderer caching into cache. style is "dark" or "light";
// empty means dark.
func New(cache cachemanager.CacheManager[Key, string], style string) *Renderer {
	return &Renderer{
		style: normalizeStyle(style),
		cache: cachemanager.NewReadThroughCache(cache, render, false),
	}
}

// Style returns the active markdown style.
func (r *Renderer) Style() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.style
}

// SetStyle switches the markdown style and drops cached renders.
func (r *Renderer) SetStyle(ctx context.Context, style string) {
	style = normalizeStyle(style)

	r.mu.Lock()
	changed := style != r.style
	r.style = style
	r.mu.Unlock()

	if changed {
		r.Invalidate(ctx)
	}
}

// Invalidate drops every cached render, e.g. after a theme reload.
func (r *Renderer) Invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx); err != nil {
		log.ErrorErr(log.CatCache, "Failed to flush code cache", err)
	}
}

// Render returns the highlighted contract wrapped to width. A glamour
// failure falls back to the plain source.
func (r *Renderer) Render(ctx context.Context, width int) string {
	if width < 20 {
		width = 20
	}
	req := request{width: width, style: r.Style()}

	out, err := r.cache.GetWithRefresh(ctx, keyFor(req), req, CacheTTL)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render contract", err, "width", width)
		return ContractSource
	}
	return out
}

// render avoids glamour.WithAutoStyle, which queries the terminal and leaks
// the response into the input stream.
func render(_ context.Context, req request) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(req.style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(req.width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := tr.Render(Markdown())
	if err != nil {
		return "", fmt.Errorf("rendering contract: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func normalizeStyle(style string) string {
	if style == "light" {
		return "light"
	}
	return "dark"
}
