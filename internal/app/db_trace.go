package app

import (
	"regexp"
	"strings"
)

// Span attributes cap the recorded statement so a bulk lineup insert
// cannot blow up trace payloads.
const tracedQueryLimit = 512

var sqlWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flattened := sqlWhitespace.ReplaceAllString(query, " ")
	if len(flattened) <= tracedQueryLimit {
		return flattened
	}

	return flattened[:tracedQueryLimit] + "..."
}
