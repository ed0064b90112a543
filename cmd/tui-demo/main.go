// Package main provides a demo program for the TUI backed by an in-process
// compatibility service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/Veraticus/lovetype/internal/api"
	"github.com/Veraticus/lovetype/internal/config"
	"github.com/Veraticus/lovetype/internal/engine"
	"github.com/Veraticus/lovetype/internal/interpret"
	"github.com/Veraticus/lovetype/internal/session"
	"github.com/Veraticus/lovetype/internal/tui"
)

var demoTypes = []string{"共感", "調和", "依存", "刺激", "信頼", "自立", "献身", "冒険"}

func main() {
	server := httptest.NewServer(demoHandler())
	defer server.Close()

	settings := config.Defaults()
	settings.BaseURL = server.URL
	runtime, err := config.NewRuntime(settings)
	if err != nil {
		fail(err)
	}

	client := api.NewClient(runtime)
	catalog := api.NewCatalog(client)
	eng := engine.New(catalog, client, interpret.New(interpret.OptionsFromSettings(settings)), session.NewMemoryStore())
	runtime.OnReconfigure(func(config.Settings) { catalog.Invalidate() })

	if err := tui.Run(context.Background(),
		tui.WithEngine(eng),
		tui.WithRuntime(runtime),
		tui.WithSize(120, 40),
	); err != nil {
		fail(err)
	}
}

func fail(err error) {
	// Use explicit error check to satisfy forbidigo
	_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
	os.Exit(1)
}

// demoHandler answers /types, /score and /health with scores derived from
// the pair so the same pair always gets the same result.
func demoHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /types", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, demoTypes)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok", "types": "ok"})
	})
	mux.HandleFunc("POST /score", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"detail": "invalid body"})
			return
		}
		writeJSON(w, demoPayload(body["typeA"], body["typeB"]))
	})
	return mux
}

func demoPayload(a, b string) map[string]any {
	h := fnv.New32a()
	_, _ = h.Write([]byte(a + "/" + b))
	seed := h.Sum32()

	scores := map[string]int{}
	for i, dim := range []string{"共感", "調和", "依存", "刺激", "信頼"} {
		scores[dim] = int((seed >> (i * 5)) % 200)
	}
	second := demoTypes[seed%uint32(len(demoTypes))]
	margin := float64(seed%12) / 100

	return map[string]any{
		"macro": map[string]any{
			"top":    a,
			"second": second,
			"margin": margin,
			"candidates": []map[string]any{
				{"name": a, "distance": 0.1},
				{"name": second, "distance": 0.1 + margin},
			},
		},
		"micro":  map[string]any{"type": b, "quadrant": string(rune('A' + seed%4))},
		"scores": scores,
		"ratios": map[string]float64{"動": 0.4, "静": 0.6},
		"copy": map[string]string{
			"catch": a + "と" + b + "はおたがいを映す鏡",
			"body":  "似ているところが多く、話が自然に弾みます。\nアドバイス：違いを見つけたら、責めずに面白がってみましょう。",
		},
		"confidence": 40 + seed%60,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
