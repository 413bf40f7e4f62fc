// Package matcher ranks found items against a lost-item query by literal
// token overlap. No stemming, no synonyms, no embeddings; a token counts
// once per instance when it appears anywhere in the candidate's searchable
// text.
package matcher

import (
	"sort"
	"strings"

	"github.com/foundit-campus/foundit-api/models"
)

// Tokenize lower-cases the query text and splits it on runs of whitespace,
// including tabs and newlines from multi-line descriptions. An empty query
// yields a single empty-string token; callers are expected to guard against
// empty queries upstream.
func Tokenize(query string) []string {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return []string{""}
	}
	return tokens
}

// searchableText is the surface a candidate is matched against: title,
// category and color, lower-cased and space-joined. Brand and tags are
// stored on the item but are not part of the search surface.
func searchableText(d models.FoundItemDetails) string {
	return strings.ToLower(d.Title + " " + d.Category + " " + d.Color)
}

// Match scores every candidate in the corpus against the query and returns
// the candidates with a positive score, best first. The score of a candidate
// is the number of query tokens (duplicates included) that appear as
// substrings of its searchable text, so it is always between 0 and the token
// count. Ties are broken by creation time, newest first, which keeps results
// reproducible across runs since the corpus carries no other ordering field.
//
// Match is pure: it never touches the store and a malformed candidate (one
// with an empty searchable text) is skipped rather than aborting the ranking.
func Match(query string, corpus []models.FoundItem) []models.MatchCandidate {
	tokens := Tokenize(query)

	var matched []models.MatchCandidate
	for _, item := range corpus {
		text := searchableText(item.Details)
		if strings.TrimSpace(text) == "" {
			continue
		}
		score := 0
		for _, token := range tokens {
			if token == "" {
				continue
			}
			if strings.Contains(text, token) {
				score++
			}
		}
		if score > 0 {
			matched = append(matched, models.MatchCandidate{FoundItem: item, MatchScore: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MatchScore != matched[j].MatchScore {
			return matched[i].MatchScore > matched[j].MatchScore
		}
		return matched[i].Details.CreatedAt > matched[j].Details.CreatedAt
	})
	return matched
}

// FilterMinScore keeps only candidates scoring at least min. The threshold
// is a caller policy, not part of the scorer; the lost-report workflow uses
// 2 to separate confident matches from noise.
func FilterMinScore(candidates []models.MatchCandidate, min int) []models.MatchCandidate {
	filtered := make([]models.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.MatchScore >= min {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
