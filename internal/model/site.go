package model

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrNoSitesArray is returned by ParseDataset when the document does not
// carry a "sites" array. A document without it is treated as absent, not
// as an empty directory.
var ErrNoSitesArray = errors.New("dataset document has no sites array")

// Alternative is a privacy-friendly service suggested in place of a Site.
type Alternative struct {
	// Name is the display name of the alternative.
	Name string `json:"name"`

	// URL is the address of the alternative service.
	URL string `json:"url"`

	// Description explains how the alternative differs from the original site.
	Description string `json:"description"`
}

// Site is one entry of the directory.
type Site struct {
	// ID is the unique identifier of the entry. Higher identifiers were
	// added more recently.
	ID int `json:"id"`

	// Name is the display name of the service, e.g. "Reddit".
	Name string `json:"name"`

	// URL is the address of the service.
	URL string `json:"url"`

	// Category lists the categories the service belongs to.
	Category []string `json:"category"`

	// Country lists the country codes (or regions such as "International")
	// where the verification applies.
	Country []string `json:"country"`

	// VerificationType describes the verification method.
	VerificationType string `json:"verification_type"`

	// Status describes where and how the verification is enforced.
	Status string `json:"status"`

	// Description is a short presentation of the service.
	Description string `json:"description"`

	// Context explains the legal or commercial reason for the verification.
	Context string `json:"context"`

	// DateInEffect is a free-form date, e.g. "juillet 2024".
	DateInEffect string `json:"date_in_effect"`

	// Sources lists the publications the entry is based on.
	Sources []string `json:"sources"`

	// Alternatives lists substitute services.
	Alternatives []Alternative `json:"alternatives"`
}

// HasCategory reports whether the site lists exactly the given category.
func (s Site) HasCategory(category string) bool {
	return containsExact(s.Category, category)
}

// HasCountry reports whether the site lists exactly the given country.
func (s Site) HasCountry(country string) bool {
	return containsExact(s.Country, country)
}

// CategoryText returns the categories joined for display.
func (s Site) CategoryText() string {
	return strings.Join(s.Category, ", ")
}

// CountryText returns the countries joined for display.
func (s Site) CountryText() string {
	return strings.Join(s.Country, ", ")
}

// SourcesText returns the sources joined for display.
func (s Site) SourcesText() string {
	return strings.Join(s.Sources, ", ")
}

// Severity returns the derived severity of the site's verification.
func (s Site) Severity() Severity {
	return ComputeSeverity(s.Status, s.Country)
}

// Flags returns the flag emojis of the site's countries.
func (s Site) Flags() string {
	return FlagEmoji(s.Country)
}

func containsExact(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// Dataset is the JSON document the directory is rendered from.
type Dataset struct {
	// Sites holds every entry of the directory in document order.
	Sites []Site `json:"sites"`
}

// ParseDataset decodes a dataset document.
// It returns ErrNoSitesArray when the document is valid JSON but has no
// "sites" array (missing or null).
func ParseDataset(data []byte) (*Dataset, error) {
	var probe struct {
		Sites json.RawMessage `json:"sites"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	raw := strings.TrimSpace(string(probe.Sites))
	if raw == "" || raw == "null" || !strings.HasPrefix(raw, "[") {
		return nil, ErrNoSitesArray
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode sites: %w", err)
	}
	if ds.Sites == nil {
		ds.Sites = []Site{}
	}
	return &ds, nil
}

// Encode returns the indented JSON form of the dataset.
func (d *Dataset) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Digest returns a hex-encoded SHA3-256 fingerprint of the dataset.
// Two datasets with the same sites in the same order share a digest.
func (d *Dataset) Digest() string {
	data, err := json.Marshal(d)
	if err != nil {
		// A Dataset only holds strings, ints and slices of them.
		return ""
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
