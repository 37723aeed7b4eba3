package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// testDataset lists its sites out of name order.
const testDataset = `{
  "sites": [
    {
      "id": 1,
      "name": "Zed Social",
      "url": "https://zed.example",
      "category": ["Réseaux sociaux"],
      "country": ["FR"],
      "verification_type": "Selfie vidéo",
      "status": "Vérification requise en France",
      "description": "Réseau social.",
      "context": "Loi SREN",
      "date_in_effect": "2025",
      "sources": ["Le Monde"],
      "alternatives": [
        {"name": "Mastodon", "url": "https://joinmastodon.org", "description": "Réseau fédéré."}
      ]
    },
    {
      "id": 2,
      "name": "alpha Porn",
      "url": "https://alpha.example",
      "category": ["Adulte"],
      "country": ["FR", "UK"],
      "verification_type": "Pièce d’identité",
      "status": "Bloqué en France",
      "description": "Vidéos pour adultes.",
      "context": "Loi 2024",
      "date_in_effect": "juillet 2024",
      "sources": [],
      "alternatives": []
    },
    {
      "id": 3,
      "name": "Éclair",
      "url": "https://eclair.example",
      "category": ["Réseaux sociaux"],
      "country": ["UK"],
      "verification_type": "Estimation faciale",
      "status": "Vérification requise au Royaume-Uni",
      "description": "Messagerie.",
      "context": "Online Safety Act",
      "date_in_effect": "juillet 2025",
      "sources": [],
      "alternatives": []
    }
  ]
}`

// writeTestFile writes content to name in dir and returns the path.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// testFiles writes an empty configuration file and the test dataset.
// The explicit configuration keeps files in the working or home
// directory out of the test.
func testFiles(t *testing.T) (configPath, dataPath string) {
	t.Helper()

	dir := t.TempDir()
	configPath = writeTestFile(t, dir, "config.yaml", "log:\n  format: text\n")
	dataPath = writeTestFile(t, dir, "sites.json", testDataset)
	return configPath, dataPath
}

// runRoot executes the root command with args and returns what it wrote.
func runRoot(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
