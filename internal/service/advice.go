package service

import "strings"

// DefaultAdviceKeywords lists phrases associated with recommendation-seeking
// intent. False positives are accepted: over-refusal is preferred to giving
// advice.
var DefaultAdviceKeywords = []string{
	"should i", "should i buy", "should i sell", "is it good", "is it bad",
	"recommend", "best", "worst", "compare returns", "which is better",
	"advice", "suggest", "opinion", "think", "believe",
}

// AdviceClassifier is a lexical gate that flags advice-seeking queries
// before any retrieval happens. Pure function over the query, no I/O.
type AdviceClassifier struct {
	keywords []string
}

func NewAdviceClassifier(keywords []string) *AdviceClassifier {
	if len(keywords) == 0 {
		keywords = DefaultAdviceKeywords
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}

	return &AdviceClassifier{keywords: lowered}
}

// IsAdvice reports whether the query matches any advice keyword,
// case-insensitively.
func (c *AdviceClassifier) IsAdvice(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range c.keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
