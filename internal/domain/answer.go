package domain

// RetrievalResult is one deduplicated retrieval hit: the best-ranked chunk
// for a distinct source URL.
type RetrievalResult struct {
	Content string
	Source  string
	Title   string
}

// Answer is the final pipeline output. For grounded answers the text always
// ends with a mechanically appended citation line and a freshness line; the
// language model never writes either.
type Answer struct {
	Answer   string
	Source   string
	IsAdvice bool
}
