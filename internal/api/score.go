package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/model"
)

// ScoreRequestFailed reports that every request shape was rejected. It
// carries the diagnostics of the last attempt.
type ScoreRequestFailed struct {
	Err      error
	Strategy string
	Body     string
	Detail   string
	Status   int
	Attempts int
}

func (e *ScoreRequestFailed) Error() string {
	msg := fmt.Sprintf("score request failed after %d attempts (last %s)", e.Attempts, e.Strategy)
	switch {
	case e.Status != 0:
		msg += fmt.Sprintf(": status %d", e.Status)
		if e.Body != "" {
			msg += ": " + e.Body
		}
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the transport or decode error of the last attempt, if any.
func (e *ScoreRequestFailed) Unwrap() error {
	return e.Err
}

// Is matches common.ErrScoreRequestFailed.
func (e *ScoreRequestFailed) Is(target error) bool {
	return target == common.ErrScoreRequestFailed
}

// UserDetail is the server-provided diagnostic, when there was one.
func (e *ScoreRequestFailed) UserDetail() string {
	return e.Detail
}

// scoreStrategy builds one accepted request shape.
type scoreStrategy struct {
	build func(ctx context.Context, endpoint string, req model.CompatibilityRequest) (*http.Request, error)
	name  string
}

// scoreStrategies are tried in order until one succeeds. Older service
// deployments accept only the later shapes.
var scoreStrategies = []scoreStrategy{
	{
		name: "post-typeA-typeB",
		build: func(ctx context.Context, endpoint string, r model.CompatibilityRequest) (*http.Request, error) {
			return jsonPost(ctx, endpoint, map[string]string{
				"typeA": r.Primary.String(),
				"typeB": r.Partner.String(),
			})
		},
	},
	{
		name: "post-a-b",
		build: func(ctx context.Context, endpoint string, r model.CompatibilityRequest) (*http.Request, error) {
			return jsonPost(ctx, endpoint, map[string]string{
				"a": r.Primary.String(),
				"b": r.Partner.String(),
			})
		},
	},
	{
		name: "get-query",
		build: func(ctx context.Context, endpoint string, r model.CompatibilityRequest) (*http.Request, error) {
			q := url.Values{}
			q.Set("typeA", r.Primary.String())
			q.Set("typeB", r.Partner.String())
			return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
		},
	},
}

func jsonPost(ctx context.Context, endpoint string, body map[string]string) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// RequestScore fetches the compatibility payload for an ordered pair. It is
// never cached: every call goes to the network.
func (c *Client) RequestScore(ctx context.Context, primary, partner model.CategoryLabel) (*model.CompatibilityPayload, error) {
	endpoint, err := c.endpoint("/score")
	if err != nil {
		return nil, err
	}

	req := model.CompatibilityRequest{Primary: primary, Partner: partner}
	var last *ScoreRequestFailed

	for i, strategy := range scoreStrategies {
		payload, failure := c.tryScore(ctx, endpoint, strategy, req)
		if failure == nil {
			slog.Debug("Score request succeeded",
				"strategy", strategy.name,
				"attempt", i+1,
				"primary", primary,
				"partner", partner)
			return payload, nil
		}

		failure.Attempts = i + 1
		last = failure

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("score request aborted: %w", ctxErr)
		}

		slog.Debug("Score request strategy rejected",
			"strategy", strategy.name,
			"status", failure.Status,
			"error", failure.Err)
	}

	return nil, last
}

// tryScore runs a single strategy.
func (c *Client) tryScore(ctx context.Context, endpoint string, s scoreStrategy, r model.CompatibilityRequest) (*model.CompatibilityPayload, *ScoreRequestFailed) {
	failure := &ScoreRequestFailed{Strategy: s.name}

	httpReq, err := s.build(ctx, endpoint, r)
	if err != nil {
		failure.Err = fmt.Errorf("failed to create request: %w", err)
		return nil, failure
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.do(httpReq)
	failure.Status = resp.status
	if err != nil {
		failure.Err = err
		return nil, failure
	}

	if !resp.ok() {
		failure.Body = snippet(resp.body)
		failure.Detail = errorDetail(resp.body)
		return nil, failure
	}

	// Only malformed JSON fails here; mistyped fields are dropped by the
	// model decoders.
	var payload model.CompatibilityPayload
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		failure.Body = snippet(resp.body)
		failure.Err = fmt.Errorf("failed to parse response: %w", err)
		return nil, failure
	}
	return &payload, nil
}

// IsScoreRequestFailed extracts a *ScoreRequestFailed from err.
func IsScoreRequestFailed(err error) (*ScoreRequestFailed, bool) {
	var failed *ScoreRequestFailed
	if errors.As(err, &failed) {
		return failed, true
	}
	return nil, false
}
