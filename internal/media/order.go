package media

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// qualityTokens in ascending rank order. Scanning happens in this order, so
// a filename carrying several tokens takes the lowest rank.
var qualityTokens = []string{"480p", "540p", "720p", "1080p", "2160p", "4k"}

// episodePattern matches the first standalone 1-3 digit number, optionally
// preceded by an episode/part marker. Digits embedded in longer runs
// (720p, 2160p) have no word boundary and never match.
var episodePattern = regexp.MustCompile(`(?i)\b(?:(?:episode|part|ep|e)\s*)?(\d{1,3})\b`)

const episodeNone = 1000 // above any 3-digit episode number

// qualityRank returns the index into qualityTokens, or len(qualityTokens)
// when the name carries no recognized token, so unranked files sort last.
func qualityRank(name string) int {
	lower := strings.ToLower(name)
	for i, tok := range qualityTokens {
		if strings.Contains(lower, tok) {
			return i
		}
	}
	return len(qualityTokens)
}

// episodeNumber extracts the first episode/part number from the name, or
// episodeNone when there is none.
func episodeNumber(name string) int {
	m := episodePattern.FindStringSubmatch(name)
	if m == nil {
		return episodeNone
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return episodeNone
	}
	return n
}

// Order returns the items in viewing order: grouped by quality rank
// ascending, then by episode number ascending, then by locale-aware
// filename comparison. The sort is stable and the input is not modified.
// Items without a name sort with the empty string.
func Order(items []Item) []Item {
	ordered := make([]Item, len(items))
	copy(ordered, items)

	coll := collate.New(language.Und)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]

		qa, qb := qualityRank(a.Name), qualityRank(b.Name)
		if qa != qb {
			return qa < qb
		}

		ea, eb := episodeNumber(a.Name), episodeNumber(b.Name)
		if ea != eb {
			return ea < eb
		}

		return coll.CompareString(a.Name, b.Name) < 0
	})

	return ordered
}
