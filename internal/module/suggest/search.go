package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/chatfood/chatfood/internal/model/catalog"
)

// maxEditDistance is the acceptance threshold for fuzzy keyword matches.
const maxEditDistance = 2

const replyNoMatches = "No food items matching your criteria were found."

// Match is a catalog row accepted by the search, carrying its best edit
// distance for ranking (0 = exact or substring hit).
type Match struct {
	Item     catalog.Item
	Distance int
}

// Search scans the catalog for rows matching the extracted parameters.
// A row is excluded when any exclude keyword appears as a case-insensitive
// substring of its name, category or restaurant. A substring hit of any
// search keyword scores distance 0 and short-circuits; otherwise the row
// is accepted when the minimum edit distance across all (field, keyword)
// pairs stays within the threshold. Results are ranked ascending by
// distance.
func Search(items []catalog.Item, params SearchParams) []Match {
	keywords := params.Keywords()
	if len(keywords) == 0 {
		return nil
	}

	var matches []Match
	for _, item := range items {
		fields := []string{item.Name, item.Category, item.Restaurant}

		if excluded(fields, params.ExcludeKeywords) {
			continue
		}

		best := -1
	scan:
		for _, field := range fields {
			fieldLower := strings.ToLower(field)
			for _, kw := range keywords {
				kwLower := strings.ToLower(kw)
				if strings.Contains(fieldLower, kwLower) {
					best = 0
					break scan
				}
				if d := levenshtein.ComputeDistance(fieldLower, kwLower); d <= maxEditDistance {
					if best == -1 || d < best {
						best = d
					}
				}
			}
		}

		if best >= 0 {
			matches = append(matches, Match{Item: item, Distance: best})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Distance < matches[b].Distance
	})
	return matches
}

func excluded(fields, excludeKeywords []string) bool {
	for _, kw := range excludeKeywords {
		kwLower := strings.ToLower(strings.TrimSpace(kw))
		if kwLower == "" {
			continue
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), kwLower) {
				return true
			}
		}
	}
	return false
}

// Summarize renders the accepted rows as one-line records, or the fixed
// no-matches message when the search came up empty.
func Summarize(matches []Match) string {
	if len(matches) == 0 {
		return replyNoMatches
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("%s (%s) - %s - %.2f",
			m.Item.Name, m.Item.Category, m.Item.Restaurant, m.Item.Price))
	}
	return strings.Join(lines, "\n")
}
