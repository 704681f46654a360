// Package analyzer enriches extracted pages with derived attributes: a
// topical category from fixed keyword sets, the URL hierarchy (path depth,
// segments, file extension), and the most frequent words of the page text.
// All analysis is pure; the package holds no crawl state.
package analyzer
