package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/lovetype/internal/common"
)

// Health is the service health report. Besides "status" the service lists
// the availability of each data file it loads.
type Health struct {
	Components map[string]string `json:"components" yaml:"components"`
	Status     string            `json:"status" yaml:"status"`
}

// OK reports whether the service and all of its components are available.
func (h Health) OK() bool {
	if h.Status != "ok" {
		return false
	}
	for _, v := range h.Components {
		if v != "ok" {
			return false
		}
	}
	return true
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	resp, err := c.get(ctx, "/health")
	if err != nil {
		return Health{}, err
	}
	if !resp.ok() {
		return Health{}, fmt.Errorf("%w: status %d: %s", common.ErrServiceUnhealthy, resp.status, snippet(resp.body))
	}

	var raw map[string]any
	if err := json.Unmarshal(resp.body, &raw); err != nil {
		return Health{}, fmt.Errorf("%w: malformed health response: %v", common.ErrServiceUnhealthy, err)
	}

	h := Health{Components: make(map[string]string, len(raw))}
	for k, v := range raw {
		if k == "status" {
			h.Status = fmt.Sprint(v)
			continue
		}
		h.Components[k] = fmt.Sprint(v)
	}
	return h, nil
}
