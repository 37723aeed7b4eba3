package directory

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/stopverifage/internal/model"
)

// fixtureSites returns a small directory covering multi-valued fields,
// accented names and mixed case.
func fixtureSites() []model.Site {
	return []model.Site{
		{ID: 1, Name: "Pornhub", Category: []string{"Adulte"}, Country: []string{"FR"}, VerificationType: "Selfie vidéo ou pièce d’identité"},
		{ID: 2, Name: "Reddit", Category: []string{"Réseaux sociaux"}, Country: []string{"UK"}, VerificationType: "Service tiers (Persona), selfie vidéo"},
		{ID: 3, Name: "Spotify", Category: []string{"Streaming", "Musique"}, Country: []string{"International"}, VerificationType: "Contrôle d’âge via Yoti"},
		{ID: 4, Name: "X (Twitter)", Category: []string{"Réseaux sociaux"}, Country: []string{"UK", "FR"}, VerificationType: "Estimation faciale"},
		{ID: 5, Name: "éduc'Actu", Category: []string{"Éducation"}, Country: []string{"FR"}},
		{ID: 6, Name: "bluesky", Category: []string{"Réseaux sociaux"}, Country: []string{"US"}, VerificationType: "Pas d’ID requis"},
	}
}

func names(sites []model.Site) []string {
	out := make([]string, len(sites))
	for i, s := range sites {
		out[i] = s.Name
	}
	return out
}

func ids(sites []model.Site) []int {
	out := make([]int, len(sites))
	for i, s := range sites {
		out[i] = s.ID
	}
	return out
}

// TestFilterApply tests each filter criterion and their combination.
func TestFilterApply(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		filter  Filter
		wantIDs []int
	}{
		{
			name:    "zero filter keeps everything in original order",
			filter:  Filter{},
			wantIDs: []int{1, 2, 3, 4, 5, 6},
		},
		{
			name:    "category requires exact membership",
			filter:  Filter{Category: "Réseaux sociaux"},
			wantIDs: []int{2, 4, 6},
		},
		{
			name:    "category matches any position in the list",
			filter:  Filter{Category: "Musique"},
			wantIDs: []int{3},
		},
		{
			name:    "category is not a substring match",
			filter:  Filter{Category: "Réseaux"},
			wantIDs: []int{},
		},
		{
			name:    "category is case-sensitive",
			filter:  Filter{Category: "adulte"},
			wantIDs: []int{},
		},
		{
			name:    "country requires exact membership",
			filter:  Filter{Country: "FR"},
			wantIDs: []int{1, 4, 5},
		},
		{
			name:    "country is not a substring match",
			filter:  Filter{Country: "F"},
			wantIDs: []int{},
		},
		{
			name:    "query is a case-insensitive substring of the name",
			filter:  Filter{Query: "TWIT"},
			wantIDs: []int{4},
		},
		{
			name:    "query matches accented names caselessly",
			filter:  Filter{Query: "ÉDUC"},
			wantIDs: []int{5},
		},
		{
			name:    "query does not search other fields",
			filter:  Filter{Query: "Streaming"},
			wantIDs: []int{},
		},
		{
			name:    "blank query is ignored",
			filter:  Filter{Query: "   "},
			wantIDs: []int{1, 2, 3, 4, 5, 6},
		},
		{
			name:    "combined filters intersect",
			filter:  Filter{Category: "Réseaux sociaux", Country: "UK"},
			wantIDs: []int{2, 4},
		},
		{
			name:    "verification keyword is a substring",
			filter:  Filter{Verification: []string{"Yoti"}},
			wantIDs: []int{3},
		},
		{
			name:    "verification keyword ignores case",
			filter:  Filter{Verification: []string{"SELFIE"}},
			wantIDs: []int{1, 2},
		},
		{
			name:    "verification keywords are alternatives",
			filter:  Filter{Verification: []string{"Yoti", "Estimation faciale"}},
			wantIDs: []int{3, 4},
		},
		{
			name:    "blank verification keywords are ignored",
			filter:  Filter{Verification: []string{"", "  "}},
			wantIDs: []int{1, 2, 3, 4, 5, 6},
		},
		{
			name:    "verification intersects with country",
			filter:  Filter{Verification: []string{"Selfie"}, Country: "UK"},
			wantIDs: []int{2},
		},
		{
			name:    "all three filters intersect",
			filter:  Filter{Query: "x", Category: "Réseaux sociaux", Country: "FR"},
			wantIDs: []int{4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ids(tc.filter.Apply(fixtureSites()))
			if diff := cmp.Diff(tc.wantIDs, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestFilterIntersection checks that a combined filter equals the
// intersection of its single-criterion filters on the fixture.
func TestFilterIntersection(t *testing.T) {
	t.Parallel()

	sites := fixtureSites()
	combined := Filter{Query: "e", Category: "Réseaux sociaux", Country: "UK", Verification: []string{"selfie"}}

	inAll := func(s model.Site) bool {
		return Filter{Query: combined.Query}.Match(s) &&
			Filter{Category: combined.Category}.Match(s) &&
			Filter{Country: combined.Country}.Match(s) &&
			Filter{Verification: combined.Verification}.Match(s)
	}

	var want []int
	for _, s := range sites {
		if inAll(s) {
			want = append(want, s.ID)
		}
	}
	got := ids(combined.Apply(sites))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("combined filter is not the intersection (-want +got):\n%s", diff)
	}
}

// TestFilterIsZero tests the IsZero helper.
func TestFilterIsZero(t *testing.T) {
	t.Parallel()

	if !(Filter{}).IsZero() {
		t.Error("expected empty filter to be zero")
	}
	if !(Filter{Query: "  "}).IsZero() {
		t.Error("expected blank query filter to be zero")
	}
	if (Filter{Country: "FR"}).IsZero() {
		t.Error("expected country filter not to be zero")
	}
	if !(Filter{Verification: []string{" "}}).IsZero() {
		t.Error("expected blank verification keywords to be zero")
	}
	if (Filter{Verification: []string{"Yoti"}}).IsZero() {
		t.Error("expected verification filter not to be zero")
	}
}

// TestApplyDoesNotModifyInput ensures queries never mutate the dataset.
func TestApplyDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	sites := fixtureSites()
	before := fixtureSites()

	_ = Filter{Country: "FR"}.Apply(sites)
	_ = SortByName(sites, "fr")
	_ = Recent(sites, 2)
	_ = Search(sites, Filter{Category: "Réseaux sociaux"}, "fr")

	if diff := cmp.Diff(before, sites); diff != "" {
		t.Errorf("input was modified (-before +after):\n%s", diff)
	}
}

// TestSortByName tests locale-aware ordering.
func TestSortByName(t *testing.T) {
	t.Parallel()

	t.Run("collation ignores case and accents at the primary level", func(t *testing.T) {
		t.Parallel()

		got := names(SortByName(fixtureSites(), "fr"))
		want := []string{"bluesky", "éduc'Actu", "Pornhub", "Reddit", "Spotify", "X (Twitter)"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("SortByName() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown locale falls back to the default", func(t *testing.T) {
		t.Parallel()

		want := names(SortByName(fixtureSites(), DefaultLocale))
		got := names(SortByName(fixtureSites(), "not a locale!"))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("fallback mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("equal names keep their relative order", func(t *testing.T) {
		t.Parallel()

		sites := []model.Site{{ID: 1, Name: "Same"}, {ID: 2, Name: "Same"}, {ID: 3, Name: "Alpha"}}
		got := ids(SortByName(sites, "fr"))
		if diff := cmp.Diff([]int{3, 1, 2}, got); diff != "" {
			t.Errorf("stable order mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestSearch tests that search filters and then sorts.
func TestSearch(t *testing.T) {
	t.Parallel()

	got := names(Search(fixtureSites(), Filter{Category: "Réseaux sociaux"}, "fr"))
	want := []string{"bluesky", "Reddit", "X (Twitter)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

// TestCategoriesAndCountries tests the distinct option lists.
func TestCategoriesAndCountries(t *testing.T) {
	t.Parallel()

	t.Run("categories are distinct and collated", func(t *testing.T) {
		t.Parallel()

		got := Categories(fixtureSites(), "fr")
		want := []string{"Adulte", "Éducation", "Musique", "Réseaux sociaux", "Streaming"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("countries are distinct and collated", func(t *testing.T) {
		t.Parallel()

		got := Countries(fixtureSites(), "fr")
		want := []string{"FR", "International", "UK", "US"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Countries() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty dataset yields empty lists", func(t *testing.T) {
		t.Parallel()

		if got := Categories(nil, "fr"); len(got) != 0 {
			t.Errorf("expected no categories, got %v", got)
		}
		if got := Countries(nil, "fr"); len(got) != 0 {
			t.Errorf("expected no countries, got %v", got)
		}
	})
}

// TestRecent tests selection of the most recently added entries.
func TestRecent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		n       int
		wantIDs []int
	}{
		{"default count", DefaultRecentCount, []int{6, 5, 4, 3}},
		{"more than available", 10, []int{6, 5, 4, 3, 2, 1}},
		{"zero", 0, []int{}},
		{"negative", -1, []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ids(Recent(fixtureSites(), tc.n))
			if diff := cmp.Diff(tc.wantIDs, got); diff != "" {
				t.Errorf("Recent(%d) mismatch (-want +got):\n%s", tc.n, diff)
			}
		})
	}
}

// TestFind tests lookup by identifier.
func TestFind(t *testing.T) {
	t.Parallel()

	t.Run("existing identifier", func(t *testing.T) {
		t.Parallel()
		site, ok := Find(fixtureSites(), 3)
		if !ok {
			t.Fatal("expected site 3 to be found")
		}
		if site.Name != "Spotify" {
			t.Errorf("expected Spotify, got %q", site.Name)
		}
	})

	t.Run("missing identifier reports not found", func(t *testing.T) {
		t.Parallel()
		site, ok := Find(fixtureSites(), 42)
		if ok {
			t.Fatal("expected site 42 not to be found")
		}
		if site.ID != 0 || site.Name != "" {
			t.Errorf("expected zero site, got %+v", site)
		}
	})

	t.Run("empty dataset", func(t *testing.T) {
		t.Parallel()
		if _, ok := Find(nil, 1); ok {
			t.Error("expected nothing to be found in an empty dataset")
		}
	})
}
