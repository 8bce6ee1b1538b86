package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/fundfacts-ai/fundfacts/internal/domain"
	"github.com/fundfacts-ai/fundfacts/internal/telemetry"
)

// RefusalMessage is the fixed answer for advice-seeking queries.
const RefusalMessage = `I can only provide factual information from official sources. For investment advice, please consult a registered investment advisor or financial planner.

You can learn more about mutual funds at: https://www.amfiindia.com/investor-corner/knowledge-center/faqs`

// QueryRetriever defines the retrieval step of the pipeline.
type QueryRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error)
}

// AnswerComposer defines the composition step of the pipeline.
type AnswerComposer interface {
	Compose(ctx context.Context, query string, results []domain.RetrievalResult) domain.Answer
}

// IndexBuilder defines the build/load side of the index store, used for
// on-demand rebuilds.
type IndexBuilder interface {
	Build(ctx context.Context, chunks []domain.Chunk, recreate bool) error
	Load(ctx context.Context) error
}

// CorpusLoader supplies the scraped records a rebuild starts from.
type CorpusLoader interface {
	Load(ctx context.Context) ([]domain.ScrapedRecord, error)
}

// RecordChunker turns scraped records into indexable chunks.
type RecordChunker interface {
	Chunk(records []domain.ScrapedRecord) []domain.Chunk
}

// Pipeline sequences classifier, retriever, and composer, and owns the
// no-results and error fallback paths. It is the only component that may
// trigger an index rebuild; the rebuild runs at most once per query and is
// single-flighted per collection so concurrent queries never duplicate
// embedding work or race on the collection.
type Pipeline struct {
	classifier    *AdviceClassifier
	retriever     QueryRetriever
	composer      AnswerComposer
	index         IndexBuilder
	corpus        CorpusLoader
	chunker       RecordChunker
	refusalSource string
	collection    string
	topK          int

	rebuilds singleflight.Group
}

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	Classifier    *AdviceClassifier
	Retriever     QueryRetriever
	Composer      AnswerComposer
	Index         IndexBuilder
	Corpus        CorpusLoader
	Chunker       RecordChunker
	RefusalSource string
	Collection    string
	TopK          int
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}
	return &Pipeline{
		classifier:    cfg.Classifier,
		retriever:     cfg.Retriever,
		composer:      cfg.Composer,
		index:         cfg.Index,
		corpus:        cfg.Corpus,
		chunker:       cfg.Chunker,
		refusalSource: cfg.RefusalSource,
		collection:    cfg.Collection,
		topK:          topK,
	}
}

// Answer runs one query through the pipeline synchronously. Recoverable
// conditions (empty retrieval, completion failure) are absorbed into a
// still-valid Answer; only validation failures and an index that stays
// unavailable after one rebuild surface as errors.
func (p *Pipeline) Answer(ctx context.Context, query string) (domain.Answer, error) {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline.Answer", telemetry.SpanAttributes{
		Collection: p.collection,
		Operation:  "answer",
	})
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, domain.ErrEmptyQuery
	}

	if p.classifier.IsAdvice(query) {
		return domain.Answer{
			Answer:   RefusalMessage,
			Source:   p.refusalSource,
			IsAdvice: true,
		}, nil
	}

	results, err := p.retriever.Retrieve(ctx, query, p.topK)
	if err != nil {
		if !errors.Is(err, domain.ErrIndexUnavailable) {
			return domain.Answer{}, p.asPipelineError(ctx, err)
		}

		log.Printf("index unavailable, rebuilding collection %q", p.collection)
		if rerr := p.Rebuild(ctx); rerr != nil {
			perr := p.asPipelineError(ctx,
				domain.NewDomainErrorWithCause(domain.ErrCodePipelineUnavailable, "rebuild failed", rerr))
			span.SetError(perr)
			return domain.Answer{}, perr
		}

		results, err = p.retriever.Retrieve(ctx, query, p.topK)
		if err != nil {
			perr := p.asPipelineError(ctx,
				domain.NewDomainErrorWithCause(domain.ErrCodePipelineUnavailable, "retrieval failed after rebuild", err))
			span.SetError(perr)
			return domain.Answer{}, perr
		}
	}

	return p.composer.Compose(ctx, query, results), nil
}

// EnsureReady probes the index and rebuilds it when missing. Called once at
// startup so the first query does not pay the rebuild cost.
func (p *Pipeline) EnsureReady(ctx context.Context) error {
	err := p.index.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		return err
	}

	log.Printf("index missing at startup, rebuilding collection %q", p.collection)
	return p.Rebuild(ctx)
}

// Rebuild regenerates the vector collection from the scraped corpus.
// Concurrent callers for the same collection share a single in-flight
// build.
func (p *Pipeline) Rebuild(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "Pipeline.Rebuild", telemetry.SpanAttributes{
		Collection: p.collection,
		Operation:  "rebuild",
	})
	defer span.End()

	_, err, _ := p.rebuilds.Do(p.collection, func() (interface{}, error) {
		records, err := p.corpus.Load(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, domain.ErrNoCorpus
		}

		chunks := p.chunker.Chunk(records)
		log.Printf("rebuilding collection %q: %d chunks from %d records", p.collection, len(chunks), len(records))

		if err := p.index.Build(ctx, chunks, true); err != nil {
			return nil, err
		}
		return nil, p.index.Load(ctx)
	})
	if err != nil {
		span.SetError(err)
	}
	return err
}

// asPipelineError maps a caller-imposed deadline to the timeout error so
// the boundary can report it distinctly.
func (p *Pipeline) asPipelineError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewDomainErrorWithCause(domain.ErrCodePipelineTimeout, "request deadline exceeded", err)
	}
	return err
}
