package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// Result is one search hit.
type Result struct {
	Document
	Similarity float32
}

// Retriever keeps one in-memory chromem collection per organization and
// re-embeds only records whose text changed since the last snapshot.
type Retriever struct {
	db          *chromem.DB
	embed       chromem.EmbeddingFunc
	concurrency int
	log         *slog.Logger

	mu      sync.Mutex
	indexed map[int64]map[string]string // org -> document ID -> content hash
}

// NewRetriever creates a Retriever backed by e.
func NewRetriever(e Embedder, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		db:          chromem.NewDB(),
		embed:       toChromemFunc(e),
		concurrency: 4,
		log:         logger,
		indexed:     make(map[int64]map[string]string),
	}
}

func collectionName(orgID int64) string {
	return fmt.Sprintf("org-%d", orgID)
}

// Index brings the organization's collection in line with s.
func (r *Retriever) Index(ctx context.Context, s *snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orgID := s.Organization.ID
	col, err := r.db.GetOrCreateCollection(collectionName(orgID), nil, r.embed)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	prev := r.indexed[orgID]
	next := make(map[string]string)
	var changed []chromem.Document
	for _, d := range Documents(s) {
		h := d.hash()
		next[d.ID] = h
		if prev[d.ID] == h {
			continue
		}
		changed = append(changed, chromem.Document{
			ID:      d.ID,
			Content: d.Content,
			Metadata: map[string]string{
				"kind": string(d.Kind),
				"name": d.Name,
				"hash": h,
			},
		})
	}

	var stale []string
	for id := range prev {
		if _, ok := next[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := col.Delete(ctx, nil, nil, stale...); err != nil {
			return fmt.Errorf("delete stale documents: %w", err)
		}
	}

	if len(changed) > 0 {
		if err := col.AddDocuments(ctx, changed, r.concurrency); err != nil {
			// Forget the org so the next call re-embeds everything.
			delete(r.indexed, orgID)
			return fmt.Errorf("add documents: %w", err)
		}
	}

	r.indexed[orgID] = next
	r.log.Debug("knowledge index updated", "org_id", orgID, "embedded", len(changed), "removed", len(stale), "total", len(next))
	return nil
}

// Search returns up to k documents of the organization most similar to
// query. An org that was never indexed has no results.
func (r *Retriever) Search(ctx context.Context, orgID int64, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = 3
	}
	col := r.db.GetCollection(collectionName(orgID), r.embed)
	if col == nil {
		return nil, nil
	}

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	k = min(k, count)

	hits, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			Document: Document{
				ID:      h.ID,
				Kind:    Kind(h.Metadata["kind"]),
				Name:    h.Metadata["name"],
				Content: h.Content,
			},
			Similarity: h.Similarity,
		}
	}
	return results, nil
}

// Related indexes s and returns the contents of the k closest records.
func (r *Retriever) Related(ctx context.Context, s *snapshot.Snapshot, query string, k int) ([]string, error) {
	if err := r.Index(ctx, s); err != nil {
		return nil, err
	}
	results, err := r.Search(ctx, s.Organization.ID, query, k)
	if err != nil {
		return nil, err
	}
	docs := make([]string, len(results))
	for i, res := range results {
		docs[i] = res.Content
	}
	return docs, nil
}
