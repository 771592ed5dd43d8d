package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

// Entry is one corpus document as stored on disk.
type Entry struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Retriever serves ranked food-knowledge documents via lexical overlap
// scoring. It implements the eino retriever interface so the food_info
// module stays agnostic of the backing index. The corpus is immutable
// after construction and safe for concurrent reads.
type Retriever struct {
	entries []Entry
	tokens  []map[string]struct{}
	topK    int
}

var _ retriever.Retriever = (*Retriever)(nil)

// NewRetriever builds a retriever over the supplied corpus.
func NewRetriever(entries []Entry, topK int) *Retriever {
	if topK < 1 {
		topK = 1
	}

	tokens := make([]map[string]struct{}, len(entries))
	for i, e := range entries {
		tokens[i] = tokenize(e.Content)
	}

	return &Retriever{
		entries: append([]Entry(nil), entries...),
		tokens:  tokens,
		topK:    topK,
	}
}

// NewRetrieverFromFile loads a JSON corpus file ([]Entry) and builds a
// retriever over it.
func NewRetrieverFromFile(path string, topK int) (*Retriever, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	return NewRetriever(entries, topK), nil
}

// Retrieve returns up to topK documents ranked by token overlap with the
// query. Documents with no overlap are never returned, so an off-corpus
// query yields an empty result rather than noise.
func (r *Retriever) Retrieve(_ context.Context, query string, _ ...retriever.Option) ([]*schema.Document, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score int
	}

	var hits []scored
	for i, docTokens := range r.tokens {
		score := 0
		for tok := range queryTokens {
			if _, ok := docTokens[tok]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{idx: i, score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})

	if len(hits) > r.topK {
		hits = hits[:r.topK]
	}

	docs := make([]*schema.Document, 0, len(hits))
	for _, h := range hits {
		entry := r.entries[h.idx]
		docs = append(docs, &schema.Document{
			ID:      entry.ID,
			Content: entry.Content,
			MetaData: map[string]any{
				"score": h.score,
			},
		})
	}
	return docs, nil
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "can": {}, "do": {}, "does": {},
	"for": {}, "how": {}, "i": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "what": {}, "when": {},
	"which": {}, "with": {}, "you": {},
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		tokens[f] = struct{}{}
	}
	return tokens
}
