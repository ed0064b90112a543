package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/model"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
)

// FetchCategories reads the type catalog from the service. Any transport
// failure, non-2xx status or payload that is not a non-empty array of
// strings yields common.ErrCatalogUnavailable.
func (c *Client) FetchCategories(ctx context.Context) ([]model.CategoryLabel, error) {
	resp, err := c.get(ctx, "/types")
	if err != nil {
		if errors.Is(err, common.ErrConfigurationMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrCatalogUnavailable, err)
	}

	if !resp.ok() {
		detail := errorDetail(resp.body)
		if detail == "" {
			detail = snippet(resp.body)
		}
		return nil, fmt.Errorf("%w: status %d: %s", common.ErrCatalogUnavailable, resp.status, detail)
	}

	var raw []string
	if err := json.Unmarshal(resp.body, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed catalog: %v", common.ErrCatalogUnavailable, err)
	}

	labels := make([]model.CategoryLabel, 0, len(raw))
	for _, name := range raw {
		label := model.CategoryLabel(name)
		if label.IsEmpty() || slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", common.ErrCatalogUnavailable)
	}
	return labels, nil
}

// CatalogSource is the network side of a Catalog.
type CatalogSource interface {
	FetchCategories(ctx context.Context) ([]model.CategoryLabel, error)
}

// Catalog caches the type catalog. A failed fetch is not retried until the
// caller asks again, typically after the user reconfigures the endpoint.
type Catalog struct {
	source CatalogSource
	group  singleflight.Group
	labels []model.CategoryLabel
	mu     sync.RWMutex
}

// NewCatalog creates an empty catalog backed by source.
func NewCatalog(source CatalogSource) *Catalog {
	return &Catalog{source: source}
}

// Categories returns the cached catalog, fetching it on first use.
func (c *Catalog) Categories(ctx context.Context) ([]model.CategoryLabel, error) {
	if labels, ok := c.Cached(); ok {
		return labels, nil
	}

	v, err, _ := c.group.Do("types", func() (any, error) {
		labels, err := c.source.FetchCategories(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.labels = labels
		c.mu.Unlock()
		slog.Debug("Loaded type catalog", "count", len(labels))
		return labels, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]model.CategoryLabel)), nil
}

// Cached returns the catalog without touching the network.
func (c *Catalog) Cached() ([]model.CategoryLabel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.labels) == 0 {
		return nil, false
	}
	return slices.Clone(c.labels), true
}

// Invalidate drops the cached catalog.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.labels = nil
	c.mu.Unlock()
	c.group.Forget("types")
}

// Resolve maps user input onto a catalog entry. An exact match wins;
// otherwise width and whitespace differences are ignored. The returned label
// is the catalog's own spelling.
func (c *Catalog) Resolve(ctx context.Context, input string) (model.CategoryLabel, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("%w: empty type", common.ErrInvalidSelection)
	}

	labels, err := c.Categories(ctx)
	if err != nil {
		return "", err
	}

	if slices.Contains(labels, model.CategoryLabel(input)) {
		return model.CategoryLabel(input), nil
	}

	want := foldLabel(input)
	for _, label := range labels {
		if foldLabel(string(label)) == want {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownCategory, input)
}

// foldLabel normalizes a label for comparison.
func foldLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFKC.String(s)
}
