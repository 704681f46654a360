package analyzer

import (
	"net/url"
	"strings"

	"urlcat/internal/model"
)

// AnalyzeURL derives the hierarchy of a URL: the non-empty path segments,
// their count as depth, the extension of the final segment when it contains
// a dot, and whether the URL carries a query string.
//
// The extension rule is literal: everything after the last dot of the final
// segment, so "/release/v1.2" yields extension "2". Absent extensions stay
// empty here; aggregation substitutes the "html" sentinel.
func AnalyzeURL(rawURL string) *model.Hierarchy {
	h := &model.Hierarchy{PathSegments: []string{}}

	u, err := url.Parse(rawURL)
	if err != nil {
		return h
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			h.PathSegments = append(h.PathSegments, segment)
		}
	}
	h.Depth = len(h.PathSegments)

	if h.Depth > 0 {
		last := h.PathSegments[h.Depth-1]
		if idx := strings.LastIndex(last, "."); idx >= 0 {
			h.FileExtension = last[idx+1:]
		}
	}

	h.HasQuery = u.RawQuery != ""
	return h
}
