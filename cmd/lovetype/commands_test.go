package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/engine"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv runs commands against one database and config file.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("LOVETYPE_API_BASE", "")
	t.Setenv("LOVETYPE_API_BASE_URL", "")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("logging:\n  level: error\n"), 0o600))
	return &testEnv{dir: dir, config: configPath}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", e.config, "--db", filepath.Join(e.dir, "lovetype.db")}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTypesCmd(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	out, err := env.run(t, "--api-base", svc.URL(), "types")
	require.NoError(t, err)
	assert.Equal(t, "共感\n調和\n依存\n", out)

	out, err = env.run(t, "--api-base", svc.URL(), "types", "-o", "json")
	require.NoError(t, err)
	var labels []string
	require.NoError(t, json.Unmarshal([]byte(out), &labels))
	assert.Equal(t, []string{"共感", "調和", "依存"}, labels)
}

func TestTypesCmd_NoEndpoint(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "types")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfigurationMissing)
	assert.Contains(t, userMessage(err), "lovetype endpoint set")
}

func TestDiagnoseThenDetail(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	out, err := env.run(t, "--api-base", svc.URL(), "diagnose", "共感", "調和")
	require.NoError(t, err)
	assert.Contains(t, out, "共感タイプ")
	assert.Contains(t, out, "ふたりは似たもの同士")
	assert.Contains(t, out, "素直に話そう")
	assert.Contains(t, out, "91%")
	assert.Equal(t, 1, svc.ScoreRequests())

	// A new process reads the stored result without asking the service again.
	out, err = env.run(t, "--api-base", svc.URL(), "detail")
	require.NoError(t, err)
	assert.Contains(t, out, "共感 × 調和")
	assert.Contains(t, out, "X / 象限 A")
	assert.Contains(t, out, "候補")
	assert.Contains(t, out, "0.12")
	assert.Equal(t, 1, svc.ScoreRequests())
}

func TestDiagnoseCmd_JSON(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	out, err := env.run(t, "--api-base", svc.URL(), "diagnose", "依存", "共感", "-o", "json")
	require.NoError(t, err)

	var d model.Diagnosis
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, model.CategoryLabel("依存"), d.Request.Primary)
	assert.Equal(t, model.CategoryLabel("共感"), d.Request.Partner)
	assert.Equal(t, 55, d.Result.ConfidencePercent)
	assert.NotEmpty(t, d.SessionID)
}

func TestDiagnoseCmd_UnknownType(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	_, err := env.run(t, "--api-base", svc.URL(), "diagnose", "共感", "冒険")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnknownCategory)
	assert.Zero(t, svc.ScoreRequests())
}

func TestDetailCmd_NoDiagnosis(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	_, err := env.run(t, "--api-base", svc.URL(), "detail")
	require.Error(t, err)
	assert.Equal(t, "診断結果がありません。タイプを選び直してください。", userMessage(err))
}

func TestSessionEnd(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	_, err := env.run(t, "--api-base", svc.URL(), "diagnose", "共感", "調和")
	require.NoError(t, err)

	out, err := env.run(t, "session", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "共感 × 調和")

	out, err = env.run(t, "session", "end")
	require.NoError(t, err)
	assert.Contains(t, out, "セッションを終了しました")

	_, err = env.run(t, "--api-base", svc.URL(), "detail")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEndpointCmd(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	out, err := env.run(t, "endpoint", "set", svc.URL()+"/")
	require.NoError(t, err)
	assert.Contains(t, out, "3 タイプを確認しました")

	out, err = env.run(t, "endpoint", "show")
	require.NoError(t, err)
	assert.Equal(t, svc.URL()+"\n", out)

	// The saved URL is used when none is given.
	out, err = env.run(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "調和")

	_, err = env.run(t, "endpoint", "clear")
	require.NoError(t, err)

	_, err = env.run(t, "types")
	assert.ErrorIs(t, err, common.ErrConfigurationMissing)
}

func TestEndpointCmd_Rejected(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "bad scheme", args: []string{"endpoint", "set", "ftp://example.com"}},
		{name: "unreachable", args: []string{"endpoint", "set", "http://127.0.0.1:1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			require.Error(t, err)
		})
	}

	_, err := env.run(t, "endpoint", "show")
	assert.ErrorIs(t, err, common.ErrConfigurationMissing)
}

func TestRankCmd(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	out, err := env.run(t, "--api-base", svc.URL(), "rank", "共感", "--no-progress", "-o", "json")
	require.NoError(t, err)

	var entries []engine.RankEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)
	got := make([]model.CategoryLabel, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Partner)
	}
	assert.Equal(t, []model.CategoryLabel{"調和", "依存", "共感"}, got)
	assert.Equal(t, 3, svc.ScoreRequests())

	// Ranking leaves the session alone.
	_, err = env.run(t, "--api-base", svc.URL(), "detail")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRankCmd_Text(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	out, err := env.run(t, "--api-base", svc.URL(), "rank", "共感", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "  1. 調和")
	assert.Contains(t, out, "91%")
}

func TestHealthCmd(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	out, err := env.run(t, "--api-base", svc.URL(), "health")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "copy: ok")
	assert.Contains(t, out, "types: ok")
}

func TestOutputFlag_Invalid(t *testing.T) {
	svc := testutil.NewFakeService(t)
	env := newTestEnv(t)

	_, err := env.run(t, "--api-base", svc.URL(), "types", "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidConfig))
}

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lovetype dev\n", out)
}
