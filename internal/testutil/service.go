package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// DefaultTypes is the catalog served by FakeService.
var DefaultTypes = []string{"共感", "調和", "依存"}

// FakeService is a compatibility service on an httptest server. The score
// endpoint accepts the typeA/typeB JSON body; the micro type echoes typeA
// and the confidence comes from Confidence keyed by typeB.
type FakeService struct {
	Confidence map[string]int
	server     *httptest.Server
	scores     atomic.Int32
}

// NewFakeService starts a service that is stopped when the test ends.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()
	svc := &FakeService{Confidence: map[string]int{"共感": 55, "調和": 91, "依存": 73}}

	mux := http.NewServeMux()
	mux.HandleFunc("/types", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(DefaultTypes)
	})
	mux.HandleFunc("/score", svc.score)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok","types":"ok","copy":"ok"}`)
	})

	svc.server = httptest.NewServer(mux)
	t.Cleanup(svc.server.Close)
	return svc
}

// URL returns the base URL of the service.
func (s *FakeService) URL() string {
	return s.server.URL
}

// ScoreRequests counts the score requests received so far.
func (s *FakeService) ScoreRequests() int {
	return int(s.scores.Load())
}

func (s *FakeService) score(w http.ResponseWriter, r *http.Request) {
	s.scores.Add(1)

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"bad body"}`)
		return
	}
	_, _ = fmt.Fprintf(w, `{
		"macro": {"top": "X", "second": "Y", "margin": 0.02, "candidates": [{"name": "X", "distance": 0.1}, {"name": "Y", "distance": 0.12}]},
		"micro": {"type": %q, "quadrant": "A"},
		"scores": {"共感": 120, "調和": 80, "依存": 60, "刺激": 40, "信頼": 20},
		"ratios": {"動": 0.4, "静": 0.6},
		"copy": {"catch": "ふたりは似たもの同士", "body": "特徴の説明\nアドバイス：素直に話そう"},
		"confidence": %d
	}`, body["typeA"], s.Confidence[body["typeB"]])
}
