package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/config"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadJSON = `{
	"macro": {"top": "X", "second": "Y", "margin": 0.05, "candidates": [{"name": "X", "distance": 0.1}]},
	"micro": {"type": "共感", "quadrant": "A"},
	"scores": {"共感": 100, "調和": 80, "依存": 60, "刺激": 40, "信頼": 20},
	"copy": {"catch": "c", "body": "A\nアドバイス：H"},
	"confidence": 150
}`

// recordedRequest captures what the fake service saw.
type recordedRequest struct {
	Body   map[string]string
	Query  map[string]string
	Method string
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	rt, err := config.NewRuntime(config.Defaults())
	require.NoError(t, err)
	require.NoError(t, rt.SetBaseURL(server.URL+"/"))
	return NewClient(rt)
}

func record(r *http.Request) recordedRequest {
	rec := recordedRequest{Method: r.Method, Query: map[string]string{}}
	for k := range r.URL.Query() {
		rec.Query[k] = r.URL.Query().Get(k)
	}
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &rec.Body)
	}
	return rec
}

func TestClient_RequestScore_Cascade(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		bodies       []string
		wantMethods  []string
		wantErr      bool
		wantStatus   int
		wantDetail   string
		wantAttempts int
	}{
		{
			name:        "first strategy succeeds",
			statuses:    []int{200},
			bodies:      []string{payloadJSON},
			wantMethods: []string{"POST"},
		},
		{
			name:        "second strategy after 500",
			statuses:    []int{500, 200},
			bodies:      []string{`{"detail":"boom"}`, payloadJSON},
			wantMethods: []string{"POST", "POST"},
		},
		{
			name:        "third strategy after two 422s",
			statuses:    []int{422, 422, 200},
			bodies:      []string{`{}`, `{}`, payloadJSON},
			wantMethods: []string{"POST", "POST", "GET"},
		},
		{
			name:        "unparseable 2xx advances",
			statuses:    []int{200, 200},
			bodies:      []string{`<html>`, payloadJSON},
			wantMethods: []string{"POST", "POST"},
		},
		{
			name:        "mistyped fields in 2xx are accepted",
			statuses:    []int{200},
			bodies:      []string{`{"micro": {"type": "共感", "quadrant": 1}, "macro": {"top": 2}, "scores": {"共感": 100}, "copy": "none"}`},
			wantMethods: []string{"POST"},
		},
		{
			name:         "all fail carries last diagnostics",
			statuses:     []int{500, 404, 400},
			bodies:       []string{`{"detail":"one"}`, `{"detail":"two"}`, `{"detail":"type 'Z' not found"}`},
			wantMethods:  []string{"POST", "POST", "GET"},
			wantErr:      true,
			wantStatus:   400,
			wantDetail:   "type 'Z' not found",
			wantAttempts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				mu   sync.Mutex
				seen []recordedRequest
			)
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/score", r.URL.Path)
				mu.Lock()
				i := len(seen)
				seen = append(seen, record(r))
				mu.Unlock()
				w.WriteHeader(tt.statuses[i])
				_, _ = w.Write([]byte(tt.bodies[i]))
			})

			payload, err := client.RequestScore(context.Background(), "共感タイプ", "調和タイプ")

			methods := make([]string, len(seen))
			for i, r := range seen {
				methods[i] = r.Method
			}
			assert.Equal(t, tt.wantMethods, methods)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrScoreRequestFailed)
				failed, ok := IsScoreRequestFailed(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantStatus, failed.Status)
				assert.Equal(t, tt.wantDetail, failed.Detail)
				assert.Equal(t, tt.wantAttempts, failed.Attempts)
				assert.Equal(t, "get-query", failed.Strategy)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, payload)
			assert.Equal(t, "共感", payload.Micro.Type)
			assert.Equal(t, 100.0, payload.Scores["共感"].Value)
		})
	}
}

func TestClient_RequestScore_FieldNames(t *testing.T) {
	var seen []recordedRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, record(r))
		if len(seen) < 3 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte(payloadJSON))
	})

	_, err := client.RequestScore(context.Background(), "共感タイプ", "調和タイプ")
	require.NoError(t, err)
	require.Len(t, seen, 3)

	assert.Equal(t, map[string]string{"typeA": "共感タイプ", "typeB": "調和タイプ"}, seen[0].Body)
	assert.Equal(t, map[string]string{"a": "共感タイプ", "b": "調和タイプ"}, seen[1].Body)
	assert.Equal(t, map[string]string{"typeA": "共感タイプ", "typeB": "調和タイプ"}, seen[2].Query)
}

func TestClient_RequestScore_SecondSuccessSkipsThird(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(payloadJSON))
	})

	_, err := client.RequestScore(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RequestScore_NotCached(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(payloadJSON))
	})

	for range 3 {
		_, err := client.RequestScore(context.Background(), "A", "B")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_RequestScore_CanceledContext(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.RequestScore(ctx, "A", "B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_ConfigurationMissing(t *testing.T) {
	rt, err := config.NewRuntime(config.Defaults())
	require.NoError(t, err)
	client := NewClient(rt)

	_, err = client.RequestScore(context.Background(), "A", "B")
	assert.ErrorIs(t, err, common.ErrConfigurationMissing)

	_, err = client.FetchCategories(context.Background())
	assert.ErrorIs(t, err, common.ErrConfigurationMissing)

	_, err = client.Health(context.Background())
	assert.ErrorIs(t, err, common.ErrConfigurationMissing)
}

func TestClient_FetchCategories(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []model.CategoryLabel
		status  int
		wantErr bool
	}{
		{name: "valid", status: 200, body: `["敏腕マネージャー","ちゃっかりうさぎ"]`, want: []model.CategoryLabel{"敏腕マネージャー", "ちゃっかりうさぎ"}},
		{name: "drops blanks and duplicates", status: 200, body: `["a"," ","a","b"]`, want: []model.CategoryLabel{"a", "b"}},
		{name: "empty array", status: 200, body: `[]`, wantErr: true},
		{name: "only blanks", status: 200, body: `[""]`, wantErr: true},
		{name: "object", status: 200, body: `{"types":["a"]}`, wantErr: true},
		{name: "non-string elements", status: 200, body: `[1,2]`, wantErr: true},
		{name: "server error", status: 503, body: `{"detail":"love_params.csv missing"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/types", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := client.FetchCategories(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrCatalogUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_FetchCategories_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	rt, err := config.NewRuntime(config.Defaults())
	require.NoError(t, err)
	require.NoError(t, rt.SetBaseURL(url))

	_, err = NewClient(rt).FetchCategories(context.Background())
	assert.ErrorIs(t, err, common.ErrCatalogUnavailable)
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","params":"ok","copy":"missing"}`))
	})

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "missing", h.Components["copy"])
	assert.False(t, h.OK())
}

func TestErrorDetail(t *testing.T) {
	assert.Equal(t, "boom", errorDetail([]byte(`{"detail":"boom"}`)))
	assert.Equal(t, `[{"loc":["body","typeA"]}]`, errorDetail([]byte(`{"detail":[{"loc":["body","typeA"]}]}`)))
	assert.Equal(t, "", errorDetail([]byte(`not json`)))
	assert.Equal(t, "", errorDetail([]byte(`{"detail":null}`)))
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("あ", 300)
	got := snippet([]byte("  " + long + "  "))
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.True(t, strings.HasPrefix(long, strings.TrimSuffix(got, "…")))

	assert.Equal(t, "short", snippet([]byte(" short\n")))
}
