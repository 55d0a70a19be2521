package source

import "strings"

// aiKeywords is the shared relevance list. Matching is plain case-insensitive
// substring search over title+body, so short entries like "ai" intentionally
// match inside longer words.
var aiKeywords = []string{
	"ai", "artificial intelligence", "machine learning", "ml", "deep learning",
	"neural network", "chatgpt", "gpt", "openai", "llm", "large language model",
	"transformer", "bert", "nlp", "computer vision", "reinforcement learning",
	"generative ai", "anthropic", "claude", "stable diffusion", "midjourney",
}

// hnExtraKeywords extends the base list for Hacker News, where tooling posts
// are common.
var hnExtraKeywords = []string{
	"pytorch", "tensorflow", "hugging face", "langchain",
}

func isAIRelated(title, body string, extra ...string) bool {
	content := strings.ToLower(title + " " + body)
	for _, kw := range aiKeywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	for _, kw := range extra {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
