package web

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/nao1215/stopverifage/internal/model"
)

func testSites() []model.Site {
	return []model.Site{
		{
			ID: 1, Name: "Pornhub", URL: "https://www.pornhub.com",
			Category: []string{"Adulte"}, Country: []string{"FR"},
			VerificationType: "Selfie", Status: "Bloqué en France",
		},
		{
			ID: 2, Name: "Reddit", URL: "https://www.reddit.com",
			Category: []string{"Réseaux sociaux"}, Country: []string{"UK"},
			VerificationType: "Persona", Status: "Vérification requise au Royaume-Uni",
			Alternatives: []model.Alternative{{Name: "Lemmy", URL: "https://join-lemmy.org", Description: "Fédéré"}},
		},
		{
			ID: 3, Name: "Spotify", URL: "https://www.spotify.com",
			Category: []string{"Streaming"}, Country: []string{"International"},
			VerificationType: "Yoti", Status: "Vérification facultative",
		},
		{
			ID: 4, Name: "X (Twitter)", URL: "https://twitter.com",
			Category: []string{"Réseaux sociaux"}, Country: []string{"UK", "FR"},
			VerificationType: "Carte bancaire", Status: "Implémenté au Royaume-Uni",
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

// findAll returns every element of doc for which match is true.
func findAll(doc *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// tableRows returns the rows of the list table body.
func tableRows(doc *html.Node) []*html.Node {
	bodies := findAll(doc, func(n *html.Node) bool {
		id, _ := attr(n, "id")
		return n.Data == "tbody" && id == "sites-table-body"
	})
	if len(bodies) != 1 {
		return nil
	}
	return findAll(bodies[0], func(n *html.Node) bool { return n.Data == "tr" })
}
