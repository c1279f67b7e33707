package fieldmatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testEmbedder() *keywordEmbedder {
	return &keywordEmbedder{
		vectors: map[string][]float32{
			"Description": {1, 0, 0},
			"Price":       {0, 1, 0},
		},
		fallback: []float32{0, 0, 1},
	}
}

func mustNewField(t *testing.T, handle, label, typ, desc string) Field {
	t.Helper()
	f, err := NewField(handle, label, typ, desc)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func testTargets(t *testing.T) []Field {
	t.Helper()
	return []Field{
		mustNewField(t, "price", "Price", "number", ""),
		mustNewField(t, "productDescription", "Product Description", "string", ""),
		mustNewField(t, "sku", "SKU", "string", ""),
	}
}

func TestNew_NoEmbedder(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrNoEmbedder) {
		t.Fatalf("expected ErrNoEmbedder, got %v", err)
	}
}

func TestNew_NegativeDimensions(t *testing.T) {
	_, err := New(WithOpenAI(OpenAIConfig{APIKey: "k", Dimensions: -1}))
	if err == nil {
		t.Fatal("expected error for negative dimensions")
	}
}

func TestMatch_RanksByEmbedding(t *testing.T) {
	m, err := New(WithEmbedder(testEmbedder()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	query := mustNewField(t, "salesDescription", "Sales Description", "string", "")
	results, err := m.Match(context.Background(), query, testTargets(t), 2)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Field().Handle() != "productDescription" {
		t.Errorf("expected productDescription first, got %s", results[0].Field().Handle())
	}
	if results[0].Score() < 0.999 {
		t.Errorf("expected score ~1, got %f", results[0].Score())
	}
	// Remaining candidates tie at 0 and keep input order.
	if results[1].Field().Handle() != "price" {
		t.Errorf("expected price second, got %s", results[1].Field().Handle())
	}
}

func TestMatch_EmptyCandidates(t *testing.T) {
	emb := testEmbedder()
	m, _ := New(WithEmbedder(emb))

	query := mustNewField(t, "a", "A", "string", "")
	_, err := m.Match(context.Background(), query, nil, 3)
	if !errors.Is(err, ErrEmptyCandidateSet) {
		t.Fatalf("expected ErrEmptyCandidateSet, got %v", err)
	}
	if len(emb.texts) != 0 {
		t.Errorf("empty candidate set should not call the embedder, got %d texts", len(emb.texts))
	}
}

func TestMatch_ZeroValueFieldRejected(t *testing.T) {
	emb := testEmbedder()
	m, _ := New(WithEmbedder(emb))

	_, err := m.Match(context.Background(), Field{}, []Field{{}}, 1)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(emb.texts) != 0 {
		t.Errorf("zero-value field should not reach the embedder, got %d texts", len(emb.texts))
	}
}

func TestMatch_CacheAvoidsReembedding(t *testing.T) {
	emb := testEmbedder()
	m, _ := New(WithEmbedder(emb), WithCache(16))

	query := mustNewField(t, "salesDescription", "Sales Description", "string", "")
	targets := testTargets(t)
	for range 2 {
		if _, err := m.Match(context.Background(), query, targets, 3); err != nil {
			t.Fatalf("Match: %v", err)
		}
	}

	// 1 query + 3 targets on the first run, nothing on the second.
	if len(emb.texts) != 4 {
		t.Errorf("expected 4 embedded texts, got %d", len(emb.texts))
	}
}

func TestMatch_Instructions(t *testing.T) {
	emb := testEmbedder()
	m, _ := New(WithEmbedder(emb), WithInstructions("query: ", "passage: "))

	query := mustNewField(t, "a", "A", "string", "")
	if _, err := m.Match(context.Background(), query, testTargets(t)[:1], 1); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(emb.texts) != 2 {
		t.Fatalf("expected 2 texts, got %d", len(emb.texts))
	}
	if !strings.HasPrefix(emb.texts[0], "query: Handle: a") {
		t.Errorf("unexpected query text %q", emb.texts[0])
	}
	if !strings.HasPrefix(emb.texts[1], "passage: Handle: price") {
		t.Errorf("unexpected candidate text %q", emb.texts[1])
	}
}

func TestMatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	content := `[
		{"fieldHandle": "price", "fieldLabel": "Price", "fieldType": "number"},
		{"fieldHandle": "productDescription", "fieldLabel": "Product Description", "fieldType": "string"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	m, _ := New(WithEmbedder(testEmbedder()))
	query := mustNewField(t, "salesDescription", "Sales Description", "string", "")

	results, err := m.MatchFile(context.Background(), query, path, 1)
	if err != nil {
		t.Fatalf("MatchFile: %v", err)
	}
	if len(results) != 1 || results[0].Field().Handle() != "productDescription" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestMatchFile_Missing(t *testing.T) {
	m, _ := New(WithEmbedder(testEmbedder()))
	query := mustNewField(t, "a", "A", "string", "")

	_, err := m.MatchFile(context.Background(), query, filepath.Join(t.TempDir(), "nope.json"), 3)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

func TestNewField_Validation(t *testing.T) {
	_, err := NewField("  ", "Label", "string", "")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Attribute != "fieldHandle" {
		t.Errorf("expected fieldHandle validation error, got %v", err)
	}
}

func TestText(t *testing.T) {
	f := mustNewField(t, "sku", "Product SKU", "string", "")
	if got := Text(f); got != "Handle: sku | Label: Product SKU | Type: string" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestPing(t *testing.T) {
	emb := testEmbedder()
	m, _ := New(WithEmbedder(emb))
	if err := m.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	emb.healthErr = errors.New("down")
	if err := m.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestWithOpenAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "text-embedding-3-small" {
			t.Errorf("expected default model, got %q", req.Model)
		}

		type item struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]item, len(req.Input))
		for i, text := range req.Input {
			vec := []float32{0, 1}
			if strings.Contains(text, "Description") {
				vec = []float32{1, 0}
			}
			data[i] = item{Object: "embedding", Embedding: vec, Index: i}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": len(req.Input), "total_tokens": len(req.Input)},
		})
	}))
	defer server.Close()

	m, err := New(WithOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	query := mustNewField(t, "salesDescription", "Sales Description", "string", "")
	results, err := m.Match(context.Background(), query, testTargets(t), 1)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if results[0].Field().Handle() != "productDescription" {
		t.Errorf("expected productDescription, got %s", results[0].Field().Handle())
	}
}

func TestWithOpenAI_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"model not loaded"}`))
	}))
	defer server.Close()

	m, _ := New(WithOpenAI(OpenAIConfig{APIKey: "k", BaseURL: server.URL}))
	query := mustNewField(t, "a", "A", "string", "")

	_, err := m.Match(context.Background(), query, testTargets(t), 1)
	if !errors.Is(err, ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}
