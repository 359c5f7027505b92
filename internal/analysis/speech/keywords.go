package speech

import (
	"sort"
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "is": true, "are": true,
	"was": true, "were": true, "been": true, "be": true, "this": true,
	"that": true, "from": true, "have": true, "has": true, "had": true,
	"will": true, "would": true, "could": true, "should": true,
	"i": true, "me": true, "my": true, "we": true, "our": true,
	"you": true, "your": true, "it": true, "its": true, "they": true,
	"them": true, "their": true, "he": true, "she": true, "his": true,
	"her": true, "am": true, "do": true, "did": true, "does": true,
	"so": true, "very": true, "just": true, "not": true, "no": true,
	"as": true, "if": true, "then": true, "than": true, "there": true,
	"here": true, "what": true, "when": true, "how": true, "why": true,
	"about": true, "can": true, "get": true, "got": true, "also": true,
}

// extractKeywords returns the topN most frequent non-stopword tokens,
// ranked by frequency with first occurrence breaking ties.
func extractKeywords(transcript string, topN int) []string {
	if topN <= 0 {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i, raw := range strings.Fields(strings.ToLower(transcript)) {
		word := strings.Trim(raw, ".,!?;:'\"()-")
		if len(word) < 2 || stopWords[word] || !isAlpha(word) {
			continue
		}
		if counts[word] == 0 {
			firstSeen[word] = i
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

func isAlpha(word string) bool {
	for _, r := range word {
		if (r < 'a' || r > 'z') && r != '\'' {
			return false
		}
	}
	return true
}
