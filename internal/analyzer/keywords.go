package analyzer

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"urlcat/internal/model"
)

// TopKeywordCount is how many ranked keywords a page keeps.
const TopKeywordCount = 5

// ExtractKeywords tokenizes page text on non-letter boundaries, keeps
// alphabetic tokens longer than three runes, case-folds them, and returns
// the TopKeywordCount most frequent, ties broken by first encounter.
//
// Splitting on unicode.IsLetter already guarantees tokens are purely
// alphabetic, so no separate isalpha check is needed.
func ExtractKeywords(text string) []model.Keyword {
	counts := make(map[string]int)
	order := make(map[string]int)
	fold := cases.Fold()

	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	position := 0
	for _, token := range tokens {
		if len([]rune(token)) <= 3 {
			continue
		}
		word := fold.String(token)
		if _, seen := counts[word]; !seen {
			order[word] = position
			position++
		}
		counts[word]++
	}

	keywords := make([]model.Keyword, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, model.Keyword{Word: word, Count: count})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return order[keywords[i].Word] < order[keywords[j].Word]
	})

	if len(keywords) > TopKeywordCount {
		keywords = keywords[:TopKeywordCount]
	}
	return keywords
}
