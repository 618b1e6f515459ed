package query

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chat-analytics/internal/autocorrect"
	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

const cacheSize = 256

// Answer is everything produced for one query string.
type Answer struct {
	Query     string // as typed
	Corrected string // what was parsed
	Distance  int    // total edit distance of the corrections, 0 if none
	Intent    Intent
	Result    Result
}

// WasCorrected reports whether the query was changed before parsing.
func (a *Answer) WasCorrected() bool {
	return a.Distance > 0
}

// Engine runs the full pipeline: correct, parse, execute. Answers are
// cached per chat fingerprint, so a chat mutation never serves stale
// results.
type Engine struct {
	corrector *autocorrect.Corrector
	opts      Options
	cache     *lru.Cache[cacheKey, *Answer]
	logger    *zap.Logger
}

type cacheKey struct {
	chat  uint64
	query string
}

func NewEngine(corrector *autocorrect.Corrector, opts Options, logger *zap.Logger) (*Engine, error) {
	cache, err := lru.New[cacheKey, *Answer](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{corrector: corrector, opts: opts, cache: cache, logger: logger}, nil
}

// Ask answers query against c. When parsing or execution fails the
// returned Answer still carries the correction so callers can show what
// was actually parsed.
func (e *Engine) Ask(c *chat.Chat, query string) (*Answer, error) {
	key := cacheKey{chat: c.Hash(), query: query}
	if a, ok := e.cache.Get(key); ok {
		return a, nil
	}

	a := &Answer{Query: query}
	a.Distance, a.Corrected = e.corrector.Correct(query)
	if a.WasCorrected() {
		e.logger.Debug("query corrected",
			zap.String("query", query),
			zap.String("corrected", a.Corrected),
			zap.Int("distance", a.Distance))
	}

	intent, err := Parse(a.Corrected)
	if err != nil {
		return a, err
	}
	a.Intent = intent
	e.logger.Debug("query parsed", zap.String("query", a.Corrected), zap.Any("intent", intent))

	res, err := Execute(intent, c.Messages(), e.opts)
	if err != nil {
		return a, err
	}
	a.Result = res

	e.cache.Add(key, a)
	return a, nil
}
