package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/site-search/model"
	"github.com/gcbaptista/site-search/services"
)

// Field weights. A document accumulates the weight of every field that
// matched; tags and categories count once no matter how many elements match.
const (
	TitleWeight    = 10
	TagWeight      = 5
	CategoryWeight = 3
	ContentWeight  = 1
)

// NormalizeQuery trims surrounding whitespace from raw user input.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(query)
}

// IsSearchable reports whether the normalized query is long enough to run.
func IsSearchable(query string, minChars int) bool {
	q := NormalizeQuery(query)
	return q != "" && utf8.RuneCountInString(q) >= minChars
}

// Search scans docs in order and returns every document with at least one
// matching field, sorted by descending score. Documents with equal scores keep
// their collection order. Queries shorter than minChars return an empty slice.
func Search(query string, docs model.Collection, minChars int) []services.ScoredResult {
	results := make([]services.ScoredResult, 0)
	if !IsSearchable(query, minChars) {
		return results
	}

	needle := strings.ToLower(NormalizeQuery(query))
	for i := range docs {
		doc := &docs[i]
		flags := Match(doc, needle)
		if !flags.Any() {
			continue
		}
		results = append(results, services.ScoredResult{
			Document: doc,
			Score:    Score(flags),
			Matches:  flags,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Match computes the per-field match flags. needle must already be lowercased.
func Match(doc *model.Document, needle string) services.MatchFlags {
	return services.MatchFlags{
		Title:      containsFold(doc.Title, needle),
		Content:    containsFold(doc.Content, needle),
		Tags:       anyContainsFold(doc.Tags, needle),
		Categories: anyContainsFold(doc.Categories, needle),
	}
}

// Score sums the weights of the matched fields.
func Score(flags services.MatchFlags) int {
	score := 0
	if flags.Title {
		score += TitleWeight
	}
	if flags.Tags {
		score += TagWeight
	}
	if flags.Categories {
		score += CategoryWeight
	}
	if flags.Content {
		score += ContentWeight
	}
	return score
}

func containsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), needle)
}

func anyContainsFold(values []string, needle string) bool {
	for _, v := range values {
		if containsFold(v, needle) {
			return true
		}
	}
	return false
}
