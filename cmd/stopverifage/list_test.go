package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/stopverifage/internal/config"
)

// namesInOrder returns the names found in out, in the order they appear.
func namesInOrder(out string, names ...string) []string {
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, n := range names {
		if i := strings.Index(out, n); i >= 0 {
			hits = append(hits, hit{n, i})
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	got := make([]string, 0, len(hits))
	for _, h := range hits {
		got = append(got, h.name)
	}
	return got
}

// TestRunListCmd tests filtering and sorting through the list command.
func TestRunListCmd(t *testing.T) {
	t.Parallel()

	all := []string{"alpha Porn", "Éclair", "Zed Social"}
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"every site sorted by name", nil, all},
		{"category is exact", []string{"--category", "Réseaux sociaux"}, []string{"Éclair", "Zed Social"}},
		{"category prefix does not match", []string{"--category", "Réseaux"}, nil},
		{"country", []string{"--country", "UK"}, []string{"alpha Porn", "Éclair"}},
		{"category and country intersect", []string{"--category", "Réseaux sociaux", "--country", "FR"}, []string{"Zed Social"}},
		{"query ignores case", []string{"-q", "PORN"}, []string{"alpha Porn"}},
		{"query is a substring", []string{"--query", "cla"}, []string{"Éclair"}},
		{"verification keyword ignores case", []string{"--verification", "ESTIMATION"}, []string{"Éclair"}},
		{"verification keywords are alternatives", []string{"--verification", "selfie", "--verification", "pièce"}, []string{"alpha Porn", "Zed Social"}},
		{"verification and country intersect", []string{"--verification", "selfie,estimation", "--country", "UK"}, []string{"Éclair"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath, dataPath := testFiles(t)
			args := append([]string{"list", "-c", configPath, "--data", dataPath}, tt.args...)
			out, _, err := runRoot(t, args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(tt.want) == 0 {
				if !strings.Contains(out, "No site matches the filters.") {
					t.Errorf("expected the empty message, got:\n%s", out)
				}
				return
			}
			if diff := cmp.Diff(tt.want, namesInOrder(out, all...)); diff != "" {
				t.Errorf("listed sites mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestRunListCmdFormats tests the JSON, Markdown and file outputs.
func TestRunListCmdFormats(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		configPath, dataPath := testFiles(t)
		out, _, err := runRoot(t, "list", "-c", configPath, "--data", dataPath, "--json", "--country", "FR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Summary struct {
				Total int `json:"total"`
			} `json:"summary"`
			Sites []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"sites"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, out)
		}
		if got.Summary.Total != 2 || len(got.Sites) != 2 {
			t.Fatalf("expected 2 sites, got %+v", got)
		}
		if got.Sites[0].Name != "alpha Porn" || got.Sites[1].Name != "Zed Social" {
			t.Errorf("unexpected order: %+v", got.Sites)
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		t.Parallel()

		configPath, dataPath := testFiles(t)
		reportPath := filepath.Join(t.TempDir(), "reports", "sites.md")
		out, _, err := runRoot(t, "list", "-c", configPath, "--data", dataPath, "--markdown", "-o", reportPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got:\n%s", out)
		}

		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# Age verification sites") {
			t.Errorf("expected a Markdown heading, got:\n%s", content)
		}
		info, err := os.Stat(reportPath)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected mode 0600, got %o", perm)
		}
	})

	t.Run("json and markdown conflict", func(t *testing.T) {
		t.Parallel()

		configPath, dataPath := testFiles(t)
		_, _, err := runRoot(t, "list", "-c", configPath, "--data", dataPath, "--json", "--markdown")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("long listing", func(t *testing.T) {
		t.Parallel()

		configPath, dataPath := testFiles(t)
		out, _, err := runRoot(t, "list", "-c", configPath, "--data", dataPath, "--long")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "VERIFICATION") || !strings.Contains(out, "Estimation faciale") {
			t.Errorf("expected verification column, got:\n%s", out)
		}
	})
}

// TestRunListCmdDataSources tests the dataset selection.
func TestRunListCmdDataSources(t *testing.T) {
	t.Parallel()

	t.Run("built-in dataset", func(t *testing.T) {
		t.Parallel()

		configPath, _ := testFiles(t)
		out, _, err := runRoot(t, "list", "-c", configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Reddit") {
			t.Errorf("expected built-in sites, got:\n%s", out)
		}
	})

	t.Run("missing file lists nothing", func(t *testing.T) {
		t.Parallel()

		configPath, _ := testFiles(t)
		out, _, err := runRoot(t, "list", "-c", configPath, "--data", filepath.Join(t.TempDir(), "missing.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "No site matches the filters.") {
			t.Errorf("expected the empty message, got:\n%s", out)
		}
	})

	t.Run("legacy database", func(t *testing.T) {
		t.Parallel()

		configPath, _ := testFiles(t)
		out, _, err := runRoot(t, "list", "-c", configPath, "--data", createLegacyDB(t), "--category", "Adulte")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Pornhub") || strings.Contains(out, "Reddit") {
			t.Errorf("expected the database sites, got:\n%s", out)
		}
	})

	t.Run("missing explicit config", func(t *testing.T) {
		t.Parallel()

		_, _, err := runRoot(t, "list", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestRunShowCmd tests the show command.
func TestRunShowCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints the site", func(t *testing.T) {
		t.Parallel()

		configPath, dataPath := testFiles(t)
		out, _, err := runRoot(t, "show", "-c", configPath, "--data", dataPath, "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Zed Social", "Selfie vidéo", "ALTERNATIVES", "Mastodon"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		configPath, dataPath := testFiles(t)
		out, _, err := runRoot(t, "show", "-c", configPath, "--data", dataPath, "--json", "3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, out)
		}
		if got.ID != 3 || got.Name != "Éclair" {
			t.Errorf("unexpected site: %+v", got)
		}
	})

	t.Run("trailing text after the id is ignored", func(t *testing.T) {
		t.Parallel()

		configPath, dataPath := testFiles(t)
		out, _, err := runRoot(t, "show", "-c", configPath, "--data", dataPath, "3abc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Éclair") {
			t.Errorf("expected site 3, got:\n%s", out)
		}
	})

	for _, id := range []string{"99", "abc", "-1"} {
		t.Run("not found "+id, func(t *testing.T) {
			t.Parallel()

			configPath, dataPath := testFiles(t)
			_, _, err := runRoot(t, "show", "-c", configPath, "--data", dataPath, "--", id)
			if !errors.Is(err, ErrSiteNotFound) {
				t.Errorf("expected ErrSiteNotFound, got %v", err)
			}
		})
	}

	t.Run("requires an id", func(t *testing.T) {
		t.Parallel()

		if _, _, err := runRoot(t, "show"); err == nil {
			t.Error("expected an error without an id")
		}
	})
}
