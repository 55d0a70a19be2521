// Package aggregator orchestrates the concurrent source fan-out and turns
// the merged result into a deduplicated, ranked article list.
package aggregator

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/newsfusion/ainews/internal/metrics"
	"github.com/newsfusion/ainews/internal/source"
)

const (
	// sourceTimeout is the hard per-source deadline. A source that blows it
	// is abandoned and contributes nothing.
	sourceTimeout = 8 * time.Second

	// minArticles is the threshold below which the result is padded from
	// the seed set.
	minArticles = 5
)

// Per-source quality constants reflecting community signal strength.
var sourceQuality = map[string]int{
	source.NameHackerNews: 85,
	source.NameReddit:     70,
	source.NameNewsAPI:    60,
}

const defaultSourceQuality = 50

// Target pairs a source with the number of articles requested from it.
type Target struct {
	Source source.Source
	Limit  int
}

// Aggregator produces the final ranked article list for a request.
// Its contract is total: GetTrendingNews always returns at least one and
// at most total articles, falling back to the seed set when every source
// comes back empty.
type Aggregator struct {
	targets []Target
	total   int
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(targets []Target, total int, m *metrics.Metrics) *Aggregator {
	return &Aggregator{
		targets: targets,
		total:   total,
		metrics: m,
		now:     time.Now,
	}
}

// GetTrendingNews fans out to all sources, each under its own timeout,
// merges the results in fixed source order, deduplicates, ranks and
// truncates to the configured total.
func (a *Aggregator) GetTrendingNews(ctx context.Context) []source.Article {
	start := time.Now()
	defer func() {
		a.metrics.RecordAggregateDuration(time.Since(start))
	}()

	results := a.fetchAll(ctx)

	// Deterministic pre-dedup order: source registration order, regardless
	// of which fetch finished first.
	var merged []source.Article
	for _, items := range results {
		merged = append(merged, items...)
	}

	if len(merged) == 0 {
		log.Println("aggregator: no articles from any source, using seed set")
		return clampSeed(seedArticles(a.now()), a.total)
	}

	unique := a.removeDuplicates(merged)
	ranked := a.rankArticles(unique)

	final := ranked
	if len(final) > a.total {
		final = final[:a.total]
	}

	if len(final) < minArticles {
		log.Printf("aggregator: only %d articles survived, padding from seed set", len(final))
		seed := seedArticles(a.now())
		if pad := a.total - len(final); pad < len(seed) {
			seed = seed[:pad]
		}
		final = append(final, seed...)
	}

	if len(final) > a.total {
		final = final[:a.total]
	}
	return final
}

// fetchAll runs every source concurrently and collects results into
// fixed slots. A slow source is abandoned at its deadline: the fetch
// goroutine keeps running but its result is discarded.
func (a *Aggregator) fetchAll(ctx context.Context) [][]source.Article {
	results := make([][]source.Article, len(a.targets))

	var wg sync.WaitGroup
	for i, target := range a.targets {
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()

			name := target.Source.Name()
			fctx, cancel := context.WithTimeout(ctx, sourceTimeout)
			defer cancel()

			done := make(chan []source.Article, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("aggregator: source %s panicked: %v", name, r)
						done <- nil
					}
				}()

				items, err := target.Source.Fetch(fctx, target.Limit)
				if err != nil {
					// Partial results are kept; the failure only costs
					// whatever was not fetched yet.
					log.Printf("aggregator: source %s failed: %v", name, err)
					a.metrics.RecordFetch(name, metrics.OutcomeError, len(items))
				} else {
					a.metrics.RecordFetch(name, metrics.OutcomeOK, len(items))
				}
				done <- items
			}()

			select {
			case items := <-done:
				results[i] = items
				log.Printf("aggregator: source %s returned %d articles", name, len(items))
			case <-fctx.Done():
				log.Printf("aggregator: source %s timed out after %s", name, sourceTimeout)
				a.metrics.RecordFetch(name, metrics.OutcomeTimeout, 0)
			}
		}(i, target)
	}
	wg.Wait()

	return results
}

// removeDuplicates drops repeated articles in one left-to-right pass,
// keeping the first occurrence. An article is a duplicate when its
// normalized URL was already seen, or when the first 50 characters of its
// normalized title were seen and that prefix is longer than 20 characters
// (short generic titles are not matched by prefix).
func (a *Aggregator) removeDuplicates(articles []source.Article) []source.Article {
	unique := make([]source.Article, 0, len(articles))
	seenURLs := make(map[string]struct{})
	seenTitles := make(map[string]struct{})

	for _, article := range articles {
		normalizedURL := strings.Trim(strings.ToLower(article.URL), "/")
		normalizedTitle := strings.TrimSpace(strings.ToLower(article.Title))

		prefix := normalizedTitle
		if rs := []rune(prefix); len(rs) > 50 {
			prefix = string(rs[:50])
		}

		if _, ok := seenURLs[normalizedURL]; ok {
			continue
		}
		if _, ok := seenTitles[prefix]; ok && len([]rune(prefix)) > 20 {
			continue
		}

		seenURLs[normalizedURL] = struct{}{}
		seenTitles[prefix] = struct{}{}
		unique = append(unique, article)
	}

	return unique
}

// rankArticles overwrites each article's Score with the combined
// engagement+recency+quality score and sorts descending. The sort is
// stable, so ties keep the pre-sort (source registration) order.
func (a *Aggregator) rankArticles(articles []source.Article) []source.Article {
	now := a.now()
	for i := range articles {
		articles[i].Score = engagementScore(articles[i]) +
			recencyScore(articles[i].PublishedAt, now) +
			qualityScore(articles[i].Source)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Score > articles[j].Score
	})
	return articles
}

// engagementScore combines the source-native score with comment signals:
// 10 points per comment, +5 for each substantial comment (>100 chars),
// plus half the comment's own score when it is highly upvoted (>10).
func engagementScore(article source.Article) int {
	score := article.Score + len(article.Comments)*10

	for _, c := range article.Comments {
		if len([]rune(c.Content)) > 100 {
			score += 5
		}
		if c.Score > 10 {
			score += c.Score / 2
		}
	}
	return score
}

// recencyScore is a step function of hours since publication:
// <1h=100, <6h=80, <24h=60, <72h=40, else 20. Unknown publish time is 0.
func recencyScore(published, now time.Time) int {
	if published.IsZero() {
		return 0
	}

	hours := now.Sub(published).Hours()
	switch {
	case hours < 1:
		return 100
	case hours < 6:
		return 80
	case hours < 24:
		return 60
	case hours < 72:
		return 40
	default:
		return 20
	}
}

func qualityScore(sourceName string) int {
	if q, ok := sourceQuality[sourceName]; ok {
		return q
	}
	return defaultSourceQuality
}

// SourcesUsed returns the distinct source names present in articles,
// sorted for deterministic output.
func SourcesUsed(articles []source.Article) []string {
	seen := make(map[string]struct{})
	for _, a := range articles {
		seen[a.Source] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clampSeed(seed []source.Article, total int) []source.Article {
	if len(seed) > total {
		return seed[:total]
	}
	return seed
}
