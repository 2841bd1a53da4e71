// Package memory implements the document-retrieval memory: a thin wrapper
// over a vector index that hashes content into deterministic IDs, delegates
// embedding to an external provider and filters query hits by score.
package memory

import (
	"context"

	"github.com/consilium-med/consilium/pkg/repository"
)

// Embedder turns text into a fixed-dimension vector and counts tokens so the
// provider's input ceiling can be enforced before the embedding call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	CountTokens(ctx context.Context, text string) (int32, error)
}

// UseCase provides document memory operations over a vector index.
type UseCase struct {
	index    repository.VectorIndex
	embedder Embedder
}

// New creates a new document memory.
func New(index repository.VectorIndex, embedder Embedder) *UseCase {
	return &UseCase{
		index:    index,
		embedder: embedder,
	}
}
