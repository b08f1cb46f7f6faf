package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/C1Z4/ourhour-chatbot/internal/ourhour/ourhourtest"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

// keywordEmbedder puts one dimension per keyword, plus a small bias so no
// vector is zero. It counts the texts it embeds.
type keywordEmbedder struct {
	mu       sync.Mutex
	embedded int
	fail     error
}

var keywords = []string{"챗봇", "그룹웨어", "김철수", "이영희", "박지민", "디자인"}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	e.mu.Lock()
	e.embedded += len(texts)
	e.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, len(keywords)+1)
		for j, k := range keywords {
			if strings.Contains(t, k) {
				vec[j] = 1
			}
		}
		vec[len(keywords)] = 0.01
		out[i] = vec
	}
	return out, nil
}

func (e *keywordEmbedder) Name() string { return "keywords" }

func (e *keywordEmbedder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.embedded
}

func build(t *testing.T, fake *ourhourtest.Fake) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.NewAggregator(fake, snapshot.Options{}).BuildSnapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	return s
}

func TestDocuments(t *testing.T) {
	docs := Documents(build(t, ourhourtest.Sample()))
	if len(docs) != 5 {
		t.Fatalf("got %d documents, want 5", len(docs))
	}
	byID := make(map[string]Document)
	for _, d := range docs {
		byID[d.ID] = d
	}
	m, ok := byID["member:1"]
	if !ok || m.Kind != KindMember {
		t.Fatalf("member:1 = %+v", m)
	}
	if !strings.Contains(m.Content, "김철수") || !strings.Contains(m.Content, "참여 프로젝트 챗봇") {
		t.Errorf("member content = %q", m.Content)
	}
	p := byID["project:100"]
	if p.Kind != KindProject || !strings.Contains(p.Content, "마일스톤 MVP") {
		t.Errorf("project content = %q", p.Content)
	}
}

func TestRelated(t *testing.T) {
	emb := &keywordEmbedder{}
	r := NewRetriever(emb, nil)

	docs, err := r.Related(context.Background(), build(t, ourhourtest.Sample()), "챗봇 일정 알려줘", 2)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}
	if !strings.HasPrefix(docs[0], "프로젝트 챗봇") {
		t.Errorf("top hit = %q, want the 챗봇 project", docs[0])
	}
}

func TestIndexIsIncremental(t *testing.T) {
	ctx := context.Background()
	emb := &keywordEmbedder{}
	r := NewRetriever(emb, nil)
	fake := ourhourtest.Sample()

	if err := r.Index(ctx, build(t, fake)); err != nil {
		t.Fatal(err)
	}
	if got := emb.count(); got != 5 {
		t.Fatalf("first index embedded %d texts, want 5", got)
	}

	if err := r.Index(ctx, build(t, fake)); err != nil {
		t.Fatal(err)
	}
	if got := emb.count(); got != 5 {
		t.Errorf("unchanged snapshot re-embedded %d texts", got-5)
	}

	// 김철수's email changes and 그룹웨어 disappears, which also changes
	// 박지민's project list.
	fake.MemberList[0].Email = "cs.kim@ourhour.io"
	fake.ProjectList = fake.ProjectList[:1]
	if err := r.Index(ctx, build(t, fake)); err != nil {
		t.Fatal(err)
	}
	if got := emb.count() - 5; got != 2 {
		t.Errorf("changed snapshot embedded %d texts, want 2", got)
	}

	results, err := r.Search(ctx, 1, "그룹웨어", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4 after removal", len(results))
	}
	for _, res := range results {
		if res.ID == "project:200" {
			t.Error("removed project is still indexed")
		}
	}
}

func TestSearchUnknownOrg(t *testing.T) {
	r := NewRetriever(&keywordEmbedder{}, nil)
	if err := r.Index(context.Background(), build(t, ourhourtest.Sample())); err != nil {
		t.Fatal(err)
	}
	results, err := r.Search(context.Background(), 2, "챗봇", 3)
	if err != nil || len(results) != 0 {
		t.Errorf("Search(org 2) = %v, %v; want nothing", results, err)
	}
}

func TestIndexFailureIsRetried(t *testing.T) {
	emb := &keywordEmbedder{fail: errors.New("quota exceeded")}
	r := NewRetriever(emb, nil)
	snap := build(t, ourhourtest.Sample())

	if _, err := r.Related(context.Background(), snap, "챗봇", 3); err == nil {
		t.Fatal("expected embedding failure")
	}

	emb.fail = nil
	docs, err := r.Related(context.Background(), snap, "챗봇", 3)
	if err != nil {
		t.Fatalf("Related after recovery: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("got %d docs, want 3", len(docs))
	}
}

func TestOllamaEmbedder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q", req.Model)
		}
		resp := ollamaEmbedResponse{}
		for range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{1, 0})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	e, err := NewEmbedder("ollama", "", "", ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Errorf("got %d vectors, want 2", len(vecs))
	}
}

func TestNewEmbedderRejectsUnknown(t *testing.T) {
	if _, err := NewEmbedder("anthropic", "", "", ""); err == nil {
		t.Error("expected error for anthropic embedder")
	}
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewEmbedder("openai", "", "", ""); err == nil {
		t.Error("expected error without an OpenAI key")
	}
}
