package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// linkServer answers /ok and 404s everything else.
func linkServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// linkDataset has one working site URL and one broken alternative.
func linkDataset(t *testing.T, baseURL string) string {
	t.Helper()

	doc := fmt.Sprintf(`{"sites": [{"id": 1, "name": "Checked", "url": %q,
		"category": ["Adulte"], "country": ["FR"], "sources": [],
		"alternatives": [{"name": "Gone", "url": %q, "description": ""}]}]}`,
		baseURL+"/ok", baseURL+"/gone")
	return writeTestFile(t, t.TempDir(), "sites.json", doc)
}

// TestRunCheckCmd tests the link check command.
func TestRunCheckCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists broken links", func(t *testing.T) {
		t.Parallel()

		srv := linkServer(t)
		configPath, _ := testFiles(t)
		out, _, err := runRoot(t, "check", "-c", configPath, "--data", linkDataset(t, srv.URL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "2 link(s) checked, 1 failed") {
			t.Errorf("unexpected summary:\n%s", out)
		}
		if !strings.Contains(out, srv.URL+"/gone") || strings.Contains(out, srv.URL+"/ok") {
			t.Errorf("expected only the broken link, got:\n%s", out)
		}
	})

	t.Run("fail flag", func(t *testing.T) {
		t.Parallel()

		srv := linkServer(t)
		configPath, _ := testFiles(t)
		_, _, err := runRoot(t, "check", "-c", configPath, "--data", linkDataset(t, srv.URL), "--fail")
		if !errors.Is(err, ErrBrokenLinks) {
			t.Errorf("expected ErrBrokenLinks, got %v", err)
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		srv := linkServer(t)
		configPath, _ := testFiles(t)
		out, _, err := runRoot(t, "check", "-c", configPath, "--data", linkDataset(t, srv.URL), "--json", "--timeout", "5s")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got struct {
			Checked int `json:"checked"`
			Failed  int `json:"failed"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, out)
		}
		if got.Checked != 2 || got.Failed != 1 {
			t.Errorf("unexpected report: %+v", got)
		}
	})
}
