package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Seeyong/pyowm/internal/app"
	"github.com/Seeyong/pyowm/internal/config"
	"github.com/Seeyong/pyowm/pkg/apierr"
)

type seenRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   string
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *seenRequest) {
	t.Helper()
	seen := &seenRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		*seen = seenRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   string(raw),
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func runCLI(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	cfg := &config.Config{
		APIKey:       "key",
		BaseURL:      baseURL,
		StationsPath: "/data/3.0/stations",
		HTTPTimeout:  2 * time.Second,
		StorageType:  "bbolt",
		BBoltPath:    filepath.Join(t.TempDir(), "stations.db"),
	}
	root := NewRootCommand(cfg, func(c *config.Config) (*app.App, error) {
		return app.New(c, nil, nil)
	})

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGetPrintsStatusAndData(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"name":"London","main":{"temp":281.5}}`)

	out, _, err := runCLI(t, srv.URL, "get", "/data/2.5/weather", "--param", "q=London", "--header", "x-trace=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if seen.method != http.MethodGet || seen.path != "/data/2.5/weather" {
		t.Fatalf("unexpected request %s %s", seen.method, seen.path)
	}
	if !strings.Contains(seen.query, "q=London") || !strings.Contains(seen.query, "appid=key") {
		t.Fatalf("unexpected query %q", seen.query)
	}
	if seen.header.Get("X-Trace") != "abc" {
		t.Fatalf("expected header to be forwarded, got %v", seen.header)
	}

	var res struct {
		Status int            `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if res.Status != http.StatusOK || res.Data["name"] != "London" {
		t.Fatalf("unexpected output %#v", res)
	}
}

func TestPostSendsDataFromFile(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusCreated, `{"id":"abc"}`)
	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(`{"external_id":"X1"}`), 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}

	out, _, err := runCLI(t, srv.URL, "post", "/data/3.0/stations", "--data", "@"+path, "-o", "yaml")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if seen.method != http.MethodPost || !strings.Contains(seen.body, `"external_id":"X1"`) {
		t.Fatalf("unexpected request %s %q", seen.method, seen.body)
	}

	var res struct {
		Status int            `yaml:"status"`
		Data   map[string]any `yaml:"data"`
	}
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode yaml output %q: %v", out, err)
	}
	if res.Status != http.StatusCreated || res.Data["id"] != "abc" {
		t.Fatalf("unexpected output %#v", res)
	}
}

func TestDeleteWithEmptyBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNoContent, "")

	out, _, err := runCLI(t, srv.URL, "delete", "/data/3.0/stations/abc")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, `"status": 204`) || !strings.Contains(out, `"data": null`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestErrorsMapToExitCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		code   int
		kind   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Invalid API key"}`, ExitUnauthorized, apierr.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"message":"city not found"}`, ExitNotFound, apierr.ErrNotFound},
		{"bad gateway", http.StatusBadGateway, `<html><title>502 Bad Gateway</title></html>`, ExitBadGateway, apierr.ErrBadGateway},
		{"server error", http.StatusInternalServerError, `oops`, ExitAPICall, apierr.ErrAPICall},
		{"malformed body", http.StatusOK, `0x70A1B2C3D4`, ExitParse, apierr.ErrParseResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.status, tc.body)
			_, _, err := runCLI(t, srv.URL, "get", "/data/2.5/weather")
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if got := ExitCode(err); got != tc.code {
				t.Fatalf("expected exit code %d, got %d", tc.code, got)
			}
		})
	}
}

func TestInvalidFlags(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{}`)

	if _, _, err := runCLI(t, srv.URL, "get", "/x", "--param", "novalue", "--param", "=v"); err == nil {
		t.Fatalf("expected error for malformed params")
	} else if !strings.Contains(err.Error(), `"novalue"`) || !strings.Contains(err.Error(), `"=v"`) {
		t.Fatalf("expected every malformed param to be reported, got %v", err)
	}
	if _, _, err := runCLI(t, srv.URL, "post", "/x", "--data", "{not json"); err == nil {
		t.Fatalf("expected error for malformed data")
	}
	if _, _, err := runCLI(t, srv.URL, "get", "/x", "-o", "xml"); err == nil {
		t.Fatalf("expected error for unknown output format")
	}
	if seen.method != "" {
		t.Fatalf("no request expected, got %s", seen.method)
	}
	if ExitCode(fmt.Errorf("plain")) != ExitFailure {
		t.Fatalf("expected generic failure exit code")
	}
}

func TestAPIKeyFlagOverridesConfig(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{}`)

	if _, _, err := runCLI(t, srv.URL, "get", "/x", "--api-key", "other"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(seen.query, "appid=other") {
		t.Fatalf("expected flag api key, got query %q", seen.query)
	}
}

func TestMetricsFlagWritesToStderr(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)

	_, stderr, err := runCLI(t, srv.URL, "get", "/x", "--metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(stderr, `owm_http_client_requests_total{method="GET",status="200"} 1`) {
		t.Fatalf("expected request counter in %q", stderr)
	}
}

func TestStationsCommands(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusCreated, `{"id":"abc","external_id":"SF_TEST001","name":"SF","latitude":37.76,"longitude":-122.43}`)
	dir := t.TempDir()
	def := filepath.Join(dir, "station.yaml")
	if err := os.WriteFile(def, []byte("external_id: SF_TEST001\nname: SF\nlatitude: 37.76\nlongitude: -122.43\n"), 0o600); err != nil {
		t.Fatalf("write station: %v", err)
	}

	out, _, err := runCLI(t, srv.URL, "stations", "create", "-f", def)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if seen.method != http.MethodPost || seen.path != "/data/3.0/stations" {
		t.Fatalf("unexpected request %s %s", seen.method, seen.path)
	}
	if !strings.Contains(out, `"id": "abc"`) {
		t.Fatalf("unexpected output %q", out)
	}

	if _, _, err := runCLI(t, srv.URL, "stations", "get", "abc"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if seen.method != http.MethodGet || seen.path != "/data/3.0/stations/abc" {
		t.Fatalf("unexpected request %s %s", seen.method, seen.path)
	}

	if _, _, err := runCLI(t, srv.URL, "stations", "create"); err == nil {
		t.Fatalf("expected error without --file")
	}
}
