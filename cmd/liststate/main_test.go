package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devconsole/liststate/internal/config"
	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/api"
)

// run executes the root command with a config file holding cfgJSON.
func run(t *testing.T, cfgJSON, stdin string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	if err := os.WriteFile(path, []byte(cfgJSON), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "{}", "", "parse", "devices", "/devices?page=2&status=accepted&id=b&id=a")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var got struct {
		Page    int `json:"page"`
		PerPage int `json:"perPage"`
		Filters struct {
			Status    string   `json:"status"`
			Selection []string `json:"selection"`
		} `json:"filters"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Page != 2 || got.PerPage != 20 {
		t.Errorf("page, perPage = %d, %d, want 2, 20", got.Page, got.PerPage)
	}
	if got.Filters.Status != "accepted" {
		t.Errorf("status = %q, want accepted", got.Filters.Status)
	}
	if strings.Join(got.Filters.Selection, ",") != "b,a" {
		t.Errorf("selection = %v, want [b a]", got.Filters.Selection)
	}
}

func TestParseCommandUsesConfigDefaults(t *testing.T) {
	out, err := run(t, `{"resources": {"releases": {"perPage": 50, "basePath": "/software/releases"}}}`, "",
		"parse", "releases", "/software/releases/rel-7", "--canonical")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var got struct {
		Resource string `json:"resource"`
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Resource != "releases" || got.Location != "/software/releases/rel-7" {
		t.Errorf("resource, location = %q, %q, want releases, /software/releases/rel-7", got.Resource, got.Location)
	}
	if !strings.Contains(out, `"selectedRelease": "rel-7"`) || !strings.Contains(out, `"perPage": 50`) {
		t.Errorf("unexpected state:\n%s", out)
	}
}

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "devices keeps location path",
			stdin: `{"page":2,"filters":{"status":"accepted"}}`,
			args:  []string{"format", "devices", "--location", "/devices/accepted"},
			want:  "/devices/accepted?page=2&status=accepted",
		},
		{
			name:  "releases moves to selection",
			stdin: `{"filters":{"selectedRelease":"rel-42","tags":["a,b","c"]}}`,
			args:  []string{"format", "releases", "-"},
			want:  "/releases/rel-42?tags=a%252Cb%2Cc",
		},
		{
			name:  "per-page override elides",
			stdin: `{"perPage":50}`,
			args:  []string{"format", "tenants", "--per-page", "50"},
			want:  "/tenants",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "{}", tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("format error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"parse missing location", []string{"parse", "devices"}, "E160"},
		{"parse unknown resource", []string{"parse", "widgets", "/"}, "E001"},
		{"parse relative location", []string{"parse", "devices", "devices"}, "E160"},
		{"format no resource", []string{"format"}, "E160"},
		{"format bad payload", []string{"format", "devices"}, "E020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "{}", "{", tt.args...)
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, `{"resources": {"widgets": {}}}`, "", "parse", "devices", "/devices")
	if !errors.HasCode(err, "E122") {
		t.Fatalf("error = %v, want E122", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "{}", "", "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}

func TestServerOptions(t *testing.T) {
	cfg := config.New()
	cfg.Tracing.Enabled = true

	h := api.New(serverOptions(cfg)...).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("/metrics status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("expected Go runtime metrics on /metrics")
	}

	cfg.Metrics.Enabled = false
	h = api.New(serverOptions(cfg)...).Handler()
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("/metrics status = %d, want 404 when disabled", rec.Code)
	}
}

func TestOriginChecker(t *testing.T) {
	if originChecker(nil) != nil {
		t.Error("empty allow list should keep the default check")
	}
	check := originChecker([]string{"https://console.example.com"})
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "https://console.example.com")
	if !check(req) {
		t.Error("listed origin should be accepted")
	}
	req.Header.Set("Origin", "https://evil.example.com")
	if check(req) {
		t.Error("unlisted origin should be rejected")
	}
}

func TestRemoteConfigLocation(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "s3://ops", "parse", "devices", "/devices"})
	if err := cmd.Execute(); !errors.HasCode(err, "E122") {
		t.Errorf("error = %v, want E122 for a bucket without key", err)
	}
}
