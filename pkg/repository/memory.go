package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/consilium-med/consilium/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory is a process-local VectorIndex backed by a map and a brute-force
// cosine similarity scan. It is the default backend and the one used in
// tests; swap in Firestore for a persistent index.
type Memory struct {
	mu   sync.RWMutex
	docs map[model.DocumentID]*model.Document
}

// NewMemory creates an empty in-process vector index.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[model.DocumentID]*model.Document),
	}
}

func (m *Memory) Upsert(_ context.Context, doc *model.Document) error {
	if doc == nil || doc.ID == "" {
		return goerr.New("document ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *Memory) Query(_ context.Context, embedding firestore.Vector32, limit int) ([]*model.Match, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is empty")
	}
	if limit < 1 {
		limit = 10
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]*model.Match, 0, len(m.docs))
	for _, doc := range m.docs {
		md := make(map[string]any, len(doc.Metadata))
		for k, v := range doc.Metadata {
			md[k] = v
		}
		matches = append(matches, &model.Match{
			ID:       doc.ID,
			Score:    cosineSimilarity(embedding, doc.Embedding),
			Metadata: md,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

func (m *Memory) Delete(_ context.Context, ids ...model.DocumentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.docs, id)
	}
	return nil
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func cosineSimilarity(a, b firestore.Vector32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
