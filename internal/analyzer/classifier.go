package analyzer

import (
	"strings"

	"golang.org/x/text/cases"

	"urlcat/internal/model"
)

// CategoryOther is assigned when no category keyword matches at all.
const CategoryOther = "other"

// Category pairs a category name with the keywords that score it.
type Category struct {
	Name     string
	Keywords []string
}

// Categories is the fixed classification vocabulary, in declaration order.
//
// Design decision: We keep this an ordered slice rather than a map because:
//  1. Ties on the maximum score must resolve deterministically
//  2. The winner of a tie is the first-declared category among those tied
//  3. Map iteration order would make repeated runs disagree
var Categories = []Category{
	{Name: "product", Keywords: []string{"product", "buy", "shop", "store", "price", "cart", "purchase", "item", "catalog"}},
	{Name: "blog", Keywords: []string{"blog", "post", "article", "news", "story", "read", "author", "published"}},
	{Name: "about", Keywords: []string{"about", "company", "team", "history", "mission", "vision", "who we are"}},
	{Name: "contact", Keywords: []string{"contact", "phone", "email", "address", "location", "reach us", "get in touch"}},
	{Name: "service", Keywords: []string{"service", "solution", "consulting", "support", "what we do", "offerings"}},
	{Name: "help", Keywords: []string{"help", "faq", "support", "documentation", "guide", "tutorial", "how to"}},
	{Name: "legal", Keywords: []string{"privacy", "terms", "legal", "policy", "agreement", "disclaimer", "cookies"}},
}

// Classify assigns a category to a page by scoring its combined text fields
// against each keyword set. A category scores one point per keyword that
// occurs as a substring of the case-folded text; substring matching is
// intentional, so "support" also matches "supported". The highest score
// wins, first-declared category on ties, CategoryOther when every score
// is zero.
func Classify(page *model.Page) string {
	// cases.Caser carries internal state, so fold fresh on every call.
	text := cases.Fold().String(strings.Join([]string{
		page.Title,
		page.Description,
		strings.Join(page.Headings, " "),
		page.Text,
	}, " "))

	best := CategoryOther
	bestScore := 0
	for _, category := range Categories {
		score := 0
		for _, keyword := range category.Keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = category.Name
			bestScore = score
		}
	}

	return best
}
