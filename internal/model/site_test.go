package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDataset = `{
  "sites": [
    {
      "id": 2,
      "name": "Reddit",
      "url": "https://www.reddit.com",
      "category": ["Réseaux sociaux"],
      "country": ["UK"],
      "verification_type": "Persona",
      "status": "Vérification requise au Royaume-Uni seulement",
      "description": "Forum communautaire.",
      "context": "Online Safety Act 2023",
      "date_in_effect": "juillet 2024",
      "sources": ["Tom's Guide"],
      "alternatives": [
        {"name": "Lemmy", "url": "https://join-lemmy.org", "description": "Alternative fédérée."}
      ]
    }
  ]
}`

// TestParseDataset tests decoding of dataset documents.
func TestParseDataset(t *testing.T) {
	t.Parallel()

	t.Run("decodes every field", func(t *testing.T) {
		t.Parallel()

		ds, err := ParseDataset([]byte(sampleDataset))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []Site{{
			ID:               2,
			Name:             "Reddit",
			URL:              "https://www.reddit.com",
			Category:         []string{"Réseaux sociaux"},
			Country:          []string{"UK"},
			VerificationType: "Persona",
			Status:           "Vérification requise au Royaume-Uni seulement",
			Description:      "Forum communautaire.",
			Context:          "Online Safety Act 2023",
			DateInEffect:     "juillet 2024",
			Sources:          []string{"Tom's Guide"},
			Alternatives: []Alternative{
				{Name: "Lemmy", URL: "https://join-lemmy.org", Description: "Alternative fédérée."},
			},
		}}
		if diff := cmp.Diff(want, ds.Sites); diff != "" {
			t.Errorf("sites mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty sites array is a valid empty directory", func(t *testing.T) {
		t.Parallel()

		ds, err := ParseDataset([]byte(`{"sites": []}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Sites == nil || len(ds.Sites) != 0 {
			t.Errorf("expected empty non-nil sites, got %#v", ds.Sites)
		}
	})

	t.Run("missing sites array returns ErrNoSitesArray", func(t *testing.T) {
		t.Parallel()

		for _, doc := range []string{`{}`, `{"sites": null}`, `{"sites": {"id": 1}}`, `{"sites": "x"}`} {
			_, err := ParseDataset([]byte(doc))
			if !errors.Is(err, ErrNoSitesArray) {
				t.Errorf("ParseDataset(%s): expected ErrNoSitesArray, got %v", doc, err)
			}
		}
	})

	t.Run("invalid JSON returns an error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseDataset([]byte(`{"sites": [`))
		if err == nil {
			t.Fatal("expected error for invalid JSON")
		}
		if errors.Is(err, ErrNoSitesArray) {
			t.Error("invalid JSON should not be reported as a missing sites array")
		}
	})
}

// TestDatasetEncodeRoundTrip tests that an encoded dataset decodes to the same sites.
func TestDatasetEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	ds, err := ParseDataset([]byte(sampleDataset))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := ds.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("expected trailing newline")
	}

	again, err := ParseDataset(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(ds, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestDatasetDigest tests the dataset fingerprint.
func TestDatasetDigest(t *testing.T) {
	t.Parallel()

	a := &Dataset{Sites: []Site{{ID: 1, Name: "A"}}}
	b := &Dataset{Sites: []Site{{ID: 1, Name: "A"}}}
	c := &Dataset{Sites: []Site{{ID: 1, Name: "B"}}}

	if len(a.Digest()) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a.Digest()))
	}
	if a.Digest() != b.Digest() {
		t.Error("expected equal datasets to share a digest")
	}
	if a.Digest() == c.Digest() {
		t.Error("expected different datasets to have different digests")
	}
}

// TestSiteHelpers tests the exact-match and display helpers of Site.
func TestSiteHelpers(t *testing.T) {
	t.Parallel()

	site := Site{
		Category: []string{"Streaming", "Musique"},
		Country:  []string{"UK", "FR"},
		Sources:  []string{"A", "B"},
		Status:   "Vérification obligatoire",
	}

	t.Run("HasCategory matches exact values only", func(t *testing.T) {
		t.Parallel()
		if !site.HasCategory("Streaming") {
			t.Error("expected Streaming to match")
		}
		if site.HasCategory("stream") || site.HasCategory("streaming") {
			t.Error("expected partial or differently-cased values not to match")
		}
	})

	t.Run("HasCountry matches exact values only", func(t *testing.T) {
		t.Parallel()
		if !site.HasCountry("FR") {
			t.Error("expected FR to match")
		}
		if site.HasCountry("F") {
			t.Error("expected partial value not to match")
		}
	})

	t.Run("text helpers join with comma", func(t *testing.T) {
		t.Parallel()
		if got := site.CategoryText(); got != "Streaming, Musique" {
			t.Errorf("CategoryText() = %q", got)
		}
		if got := site.CountryText(); got != "UK, FR" {
			t.Errorf("CountryText() = %q", got)
		}
		if got := site.SourcesText(); got != "A, B" {
			t.Errorf("SourcesText() = %q", got)
		}
	})

	t.Run("severity and flags are derived", func(t *testing.T) {
		t.Parallel()
		if got := site.Severity(); got != SeverityVeryHigh {
			t.Errorf("Severity() = %v, want very-high", got)
		}
		if got := site.Flags(); got != "🇬🇧 🇫🇷" {
			t.Errorf("Flags() = %q", got)
		}
	})
}

// TestFlagEmoji tests conversion of country codes to flags.
func TestFlagEmoji(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		countries []string
		expected  string
	}{
		{"known mapping", []string{"UK"}, "🇬🇧"},
		{"european union in both spellings", []string{"EU", "UE"}, "🇪🇺 🇪🇺"},
		{"international", []string{"International"}, "🌍"},
		{"iso code", []string{"FR"}, "🇫🇷"},
		{"lower-case iso code", []string{"us"}, "🇺🇸"},
		{"whitespace is trimmed", []string{" AU "}, "🇦🇺"},
		{"unknown long code is skipped", []string{"Worldwide", "FR"}, "🇫🇷"},
		{"non-letter code is skipped", []string{"F1"}, ""},
		{"accented letters are skipped", []string{"ÉU"}, ""},
		{"empty list", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FlagEmoji(tc.countries); got != tc.expected {
				t.Errorf("FlagEmoji(%v) = %q, expected %q", tc.countries, got, tc.expected)
			}
		})
	}
}
