package media

import (
	"testing"
)

func named(names ...string) []Item {
	items := make([]Item, len(names))
	for i, n := range names {
		items[i] = Item{Handle: n, Name: n, Kind: KindVideo}
	}
	return items
}

func TestOrderQualityThenEpisode(t *testing.T) {
	items := named("Show.480p.E02.mkv", "Show.720p.E01.mkv", "Show.480p.E01.mkv")

	ordered := Order(items)

	want := []string{"Show.480p.E01.mkv", "Show.480p.E02.mkv", "Show.720p.E01.mkv"}
	for i, w := range want {
		if ordered[i].Name != w {
			t.Errorf("position %d: expected %s, got %s", i, w, ordered[i].Name)
		}
	}
}

func TestOrderIdempotent(t *testing.T) {
	items := named("B.1080p.E03.mkv", "A.mkv", "C.480p.Part 2.mkv", "C.480p.E01.mkv")

	once := Order(items)
	twice := Order(once)

	for i := range once {
		if once[i].Name != twice[i].Name {
			t.Fatalf("position %d changed on reorder: %s vs %s", i, once[i].Name, twice[i].Name)
		}
	}
}

func TestOrderUnrankedLast(t *testing.T) {
	items := named("Notes.txt", "Show.2160p.E01.mkv", "Show.4K.E01.mkv")

	ordered := Order(items)

	if ordered[0].Name != "Show.2160p.E01.mkv" {
		t.Errorf("expected 2160p first, got %s", ordered[0].Name)
	}
	if ordered[2].Name != "Notes.txt" {
		t.Errorf("expected unranked file last, got %s", ordered[2].Name)
	}
}

func TestOrderUnnamedSortFirst(t *testing.T) {
	items := []Item{
		{Handle: "a", Name: "readme.md", Kind: KindDocument},
		{Handle: "b", Kind: KindDocument},
	}

	ordered := Order(items)

	if ordered[0].Name != "" {
		t.Errorf("expected unnamed item first within the unranked tier, got %s", ordered[0].Name)
	}
}

func TestOrderPreservesInput(t *testing.T) {
	items := named("Show.720p.E02.mkv", "Show.720p.E01.mkv")

	Order(items)

	if items[0].Name != "Show.720p.E02.mkv" {
		t.Error("input slice was reordered")
	}
}

func TestQualityRank(t *testing.T) {
	cases := []struct {
		name string
		rank int
	}{
		{"Show.480p.mkv", 0},
		{"Show.540P.mkv", 1},
		{"Show.720p.mkv", 2},
		{"Show.1080p.mkv", 3},
		{"Show.2160p.mkv", 4},
		{"Show.4K.mkv", 5},
		{"Show.mkv", 6},
		{"", 6},
		// several tokens: lowest rank wins
		{"Show.720p.vs.1080p.mkv", 2},
	}

	for _, c := range cases {
		if got := qualityRank(c.name); got != c.rank {
			t.Errorf("%q: expected rank %d, got %d", c.name, c.rank, got)
		}
	}
}

func TestEpisodeNumber(t *testing.T) {
	cases := []struct {
		name string
		num  int
	}{
		{"Show.E02.mkv", 2},
		{"Show.Ep 12.mkv", 12},
		{"Show Episode 3.mkv", 3},
		{"Show Part 2.mkv", 2},
		{"Show - 07.mkv", 7},
		{"Show.105.mkv", 105},
		{"Show.720p.mkv", episodeNone}, // 720 is not standalone
		{"Show.mkv", episodeNone},
		{"", episodeNone},
		{"Show.1080p.E04.mkv", 4},
	}

	for _, c := range cases {
		if got := episodeNumber(c.name); got != c.num {
			t.Errorf("%q: expected %d, got %d", c.name, c.num, got)
		}
	}
}
