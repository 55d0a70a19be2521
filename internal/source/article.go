package source

import (
	"strings"
	"time"
)

// Source name constants used across the service and in API responses.
const (
	NameReddit     = "reddit"
	NameHackerNews = "hackernews"
	NameNewsAPI    = "newsapi"
)

const (
	maxDescriptionRunes = 500
	maxCommentRunes     = 300
	maxCommentsPerItem  = 5
)

// Comment is a single reader comment attached to an article.
// Score is 0 when the upstream does not expose comment scores.
type Comment struct {
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	Score      int       `json:"score"`
	CreatedUTC time.Time `json:"created_utc"`
}

// Article is the normalized item shape shared by all sources.
// Score starts as the source-native engagement count and is overwritten
// with the combined rank score during aggregation.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Score       int       `json:"score"`
	Comments    []Comment `json:"comments"`
	PublishedAt time.Time `json:"published_at"`
	SourceID    string    `json:"source_id"`
}

// truncateRunes caps s at limit runes. Counting runes instead of bytes keeps
// multi-byte text from being cut mid-character.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
