package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hanoi/pkg/cache"
	pkgio "github.com/matzehuels/hanoi/pkg/io"
	"github.com/matzehuels/hanoi/pkg/observability"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

func newTestServer(t *testing.T, c cache.Cache, maxDisks int) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s := &Server{
		Runner:   pipeline.NewRunner(c, nil, logger),
		MaxDisks: maxDisks,
		Logger:   logger,
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil, 0)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
	assert.Equal(t, "dev", resp.Header.Get("X-Hanoi-Version"))
}

func TestSolveJSON(t *testing.T) {
	ts := newTestServer(t, nil, 0)

	resp, body := get(t, ts.URL+"/solve/2")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Run-ID"))
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))

	doc, err := pkgio.ReadJSON(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, resp.Header.Get("X-Run-ID"), doc.RunID)
	assert.Equal(t, [][]int{{3, 2, 0, 0}, {0, 0, 2, 3}, {0, 1, 1, 0}}, doc.Loads)
}

func TestSolveFormats(t *testing.T) {
	ts := newTestServer(t, nil, 0)

	resp, body := get(t, ts.URL+"/solve/1?format=csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "step,peg0,peg1,peg2\n0,1,0,0\n1,0,0,1\n", string(body))

	resp, body = get(t, ts.URL+"/solve/2?format=text")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3 2 0 0\n0 0 2 3\n0 1 1 0\n", string(body))
}

func TestSolveBadRequests(t *testing.T) {
	ts := newTestServer(t, nil, 5)

	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{"zero disks", "/solve/0", "INVALID_ARGUMENT"},
		{"negative", "/solve/-3", "INVALID_ARGUMENT"},
		{"not a number", "/solve/abc", "INVALID_ARGUMENT"},
		{"above max", "/solve/6", "INVALID_ARGUMENT"},
		{"unknown format", "/solve/3?format=xml", "INVALID_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var got errorResponse
			require.NoError(t, json.Unmarshal(body, &got), string(body))
			assert.Equal(t, tt.wantCode, string(got.Code))
			assert.NotEmpty(t, got.Error)
		})
	}
}

func TestSolveUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	ts := newTestServer(t, rc, 0)

	resp, first := get(t, ts.URL+"/solve/4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	assert.Len(t, mr.Keys(), 1)

	resp, second := get(t, ts.URL+"/solve/4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hit", resp.Header.Get("X-Cache"))

	a, err := pkgio.ReadJSON(bytes.NewReader(first))
	require.NoError(t, err)
	b, err := pkgio.ReadJSON(bytes.NewReader(second))
	require.NoError(t, err)
	assert.Equal(t, a.Loads, b.Loads)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestMetrics(t *testing.T) {
	defer observability.Reset()
	reg := prometheus.NewRegistry()
	observability.NewPrometheus(reg).Install()

	logger := log.New(io.Discard)
	s := &Server{Runner: pipeline.NewRunner(nil, nil, logger), Gatherer: reg, Logger: logger}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	get(t, ts.URL+"/solve/3")
	get(t, ts.URL+"/solve/0")

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := string(body)
	for _, want := range []string{
		`hanoi_http_requests_total{code="200",method="GET",route="/solve/{n}"} 1`,
		`hanoi_http_requests_total{code="400",method="GET",route="/solve/{n}"} 1`,
		`hanoi_solves_total{result="ok"} 1`,
		`hanoi_moves_total 7`,
	} {
		assert.True(t, strings.Contains(out, want), "metrics missing %s", want)
	}
}

func TestMetricsRouteOnlyWithGatherer(t *testing.T) {
	ts := newTestServer(t, nil, 0)

	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor("INVALID_ARGUMENT"))
	assert.Equal(t, http.StatusNotFound, statusFor("NOT_FOUND"))
	assert.Equal(t, http.StatusInternalServerError, statusFor("INVARIANT_VIOLATION"))
	assert.Equal(t, http.StatusInternalServerError, statusFor(""))
}
