package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
)

const (
	maxContextResults = 3
	maxContextChars   = 500
)

const systemPrompt = `You are a Facts-Only Mutual Fund AI Assistant. Your role is to answer factual questions about mutual fund schemes using ONLY the information provided in the context.

Rules:
1. Answer ONLY factual questions (expense ratio, exit load, minimum SIP, lock-in period, riskometer, benchmark, statement downloads, NAV, fund details)
2. Keep answers concise (maximum 3 sentences, preferably 1-2)
3. Base your answer ONLY on the provided context
4. If the context doesn't contain the answer, respond: "I couldn't find specific information about [topic] in the official sources. Please check the official AMC website or contact the fund house directly."
5. Never provide investment advice, recommendations, or opinions
6. Never compare funds or make performance predictions
7. Extract exact numbers, percentages, and dates from the context when available
8. Do not include "Source:" in your response - it will be added automatically

Format your response as:
[Concise factual answer in 1-3 sentences with specific numbers/percentages if available]`

// NotFoundMessage is returned when retrieval produces no results.
const NotFoundMessage = "I couldn't find specific information about your query in the official sources. Please try rephrasing your question or check the official AMC website."

// CompletionFallbackMessage is returned when the language model call fails.
const CompletionFallbackMessage = "I encountered an error while processing your query. Please try again or check the official sources directly."

// CompletionClient defines the interface for grounded chat completion.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Composer builds a grounded prompt from retrieved passages, invokes the
// language model, and post-processes the output. The citation line and the
// freshness line are appended mechanically, never generated by the model,
// so they are always present and always correct even if the model
// misbehaves.
type Composer struct {
	llm           CompletionClient
	primarySource string
	now           func() time.Time
}

func NewComposer(llm CompletionClient, primarySource string) *Composer {
	return &Composer{
		llm:           llm,
		primarySource: primarySource,
		now:           time.Now,
	}
}

// Compose produces the final answer for a query. Model-call failures and
// empty retrieval are absorbed into a still-valid Answer; this method never
// returns an error to the caller.
func (c *Composer) Compose(ctx context.Context, query string, results []domain.RetrievalResult) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{
			Answer:   NotFoundMessage,
			Source:   c.primarySource,
			IsAdvice: false,
		}
	}

	primarySource := results[0].Source
	if primarySource == "" {
		primarySource = c.primarySource
	}

	userPrompt := fmt.Sprintf(`Context from official sources:
%s

Question: %s

Provide a factual answer based on the context above. If the answer is not in the context, say so.`, contextBlock(results), query)

	text, err := c.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("completion failed: %v", err)
		return domain.Answer{
			Answer:   CompletionFallbackMessage,
			Source:   primarySource,
			IsAdvice: false,
		}
	}

	// The model is told not to emit a Source line; strip one anyway.
	answer, _, _ := strings.Cut(text, "Source:")
	answer = strings.TrimSpace(answer)

	answer += "\n\nSource: " + primarySource
	answer += "\n\nLast updated from sources: " + c.now().Format("2006-01-02")

	return domain.Answer{
		Answer:   answer,
		Source:   primarySource,
		IsAdvice: false,
	}
}

func contextBlock(results []domain.RetrievalResult) string {
	limit := len(results)
	if limit > maxContextResults {
		limit = maxContextResults
	}

	parts := make([]string, 0, limit)
	for _, result := range results[:limit] {
		parts = append(parts, fmt.Sprintf("Source: %s\nContent: %s", result.Title, truncate(result.Content, maxContextChars)))
	}

	return strings.Join(parts, "\n\n")
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
