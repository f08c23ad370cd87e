package article

import "time"

const (
	KindMatchResult   = "match-result"
	KindUpcomingMatch = "upcoming-match"
	KindLineup        = "lineup"
	KindLeagueUpdate  = "league-update"
)

const (
	MaxTitleLen   = 200
	MaxSummaryLen = 300
	MaxBodyLen    = 2000
)

// Article is a generated newsroom piece. SourceKind and SourceRef
// identify the triggering event so regeneration can be deduplicated
// without inspecting article text.
type Article struct {
	ID         string
	Title      string
	Summary    string
	Body       string
	ImageURL   string
	SourceKind string
	SourceRef  string
	CreatedAt  time.Time
}
