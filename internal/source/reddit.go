package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	redditPublicBaseURL = "https://www.reddit.com"
	redditOAuthBaseURL  = "https://oauth.reddit.com"
	redditTokenURL      = "https://www.reddit.com/api/v1/access_token"

	redditClientTimeout    = 10 * time.Second
	redditMaxResponseBytes = 1 << 20
	redditTokenSkew        = time.Minute
)

// Reddit fetches hot posts from a configured list of subreddits.
//
// With client credentials configured it authenticates via the app-only
// OAuth grant and talks to oauth.reddit.com; without them it falls back
// to the public JSON endpoints. The subreddit list is taken as given,
// duplicates included.
type Reddit struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Subreddits   []string

	// Endpoint overrides, used by tests.
	BaseURL  string
	TokenURL string

	once   sync.Once
	client *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func (r *Reddit) Name() string {
	return NameReddit
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	URL         string  `json:"url"`
	Score       int     `json:"score"`
	Author      string  `json:"author"`
	Body        string  `json:"body"`
	Stickied    bool    `json:"stickied"`
	CreatedUTC  float64 `json:"created_utc"`
	NumComments int     `json:"num_comments"`
}

func (r *Reddit) init() {
	r.once.Do(func() {
		r.client = &http.Client{Timeout: redditClientTimeout}
	})
}

func (r *Reddit) Fetch(ctx context.Context, limit int) ([]Article, error) {
	r.init()

	if len(r.Subreddits) == 0 || limit <= 0 {
		return nil, nil
	}

	quota := limit/len(r.Subreddits) + 1
	articles := make([]Article, 0, limit)
	var lastErr error

	for _, sub := range r.Subreddits {
		if len(articles) >= limit {
			break
		}

		posts, err := r.hotPosts(ctx, sub, quota)
		if err != nil {
			log.Printf("reddit: fetch r/%s: %v", sub, err)
			lastErr = err
			continue
		}

		for _, post := range posts {
			if len(articles) >= limit {
				break
			}
			if post.Stickied {
				continue
			}
			if !isAIRelated(post.Title, post.Selftext) {
				continue
			}

			description := post.Selftext
			if description == "" {
				description = post.Title
			}

			articles = append(articles, Article{
				Title:       post.Title,
				Description: truncateRunes(description, maxDescriptionRunes),
				URL:         post.URL,
				Source:      NameReddit,
				Score:       post.Score,
				Comments:    r.fetchComments(ctx, post.ID),
				PublishedAt: time.Unix(int64(post.CreatedUTC), 0),
				SourceID:    post.ID,
			})
		}
	}

	if len(articles) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return articles, nil
}

func (r *Reddit) hotPosts(ctx context.Context, subreddit string, quota int) ([]redditPost, error) {
	u := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", r.apiBase(), url.PathEscape(subreddit), quota)

	var listing redditListing
	if err := r.getJSON(ctx, u, &listing); err != nil {
		return nil, err
	}

	posts := make([]redditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// fetchComments pulls up to maxCommentsPerItem top-level comments for a post.
// Comment failures only cost the comments, never the article.
func (r *Reddit) fetchComments(ctx context.Context, postID string) []Comment {
	u := fmt.Sprintf("%s/comments/%s.json?limit=%d&depth=1", r.apiBase(), url.PathEscape(postID), maxCommentsPerItem)

	// The comments endpoint returns two listings: the post itself, then
	// the comment tree.
	var listings []redditListing
	if err := r.getJSON(ctx, u, &listings); err != nil {
		log.Printf("reddit: fetch comments for %s: %v", postID, err)
		return nil
	}
	if len(listings) < 2 {
		return nil
	}

	comments := make([]Comment, 0, maxCommentsPerItem)
	for _, child := range listings[1].Data.Children {
		if len(comments) >= maxCommentsPerItem {
			break
		}
		c := child.Data
		if c.Body == "" || c.Body == "[deleted]" {
			continue
		}
		author := c.Author
		if author == "" {
			author = "deleted"
		}
		comments = append(comments, Comment{
			Author:     author,
			Content:    truncateRunes(c.Body, maxCommentRunes),
			Score:      c.Score,
			CreatedUTC: time.Unix(int64(c.CreatedUTC), 0),
		})
	}
	return comments
}

func (r *Reddit) apiBase() string {
	if r.BaseURL != "" {
		return r.BaseURL
	}
	if r.ClientID != "" && r.ClientSecret != "" {
		return redditOAuthBaseURL
	}
	return redditPublicBaseURL
}

func (r *Reddit) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", r.userAgent())

	if r.ClientID != "" && r.ClientSecret != "" {
		token, err := r.accessToken(ctx)
		if err != nil {
			return fmt.Errorf("access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, redditMaxResponseBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// accessToken returns a cached app-only token, requesting a fresh one
// lazily on first use or after expiry.
func (r *Reddit) accessToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && time.Now().Before(r.tokenExpiry.Add(-redditTokenSkew)) {
		return r.token, nil
	}

	tokenURL := r.TokenURL
	if tokenURL == "" {
		tokenURL = redditTokenURL
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(r.ClientID, r.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", r.userAgent())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, redditMaxResponseBytes)).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	r.token = tok.AccessToken
	r.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return r.token, nil
}

func (r *Reddit) userAgent() string {
	if r.UserAgent != "" {
		return r.UserAgent
	}
	return "AI News Aggregator v1.0"
}
