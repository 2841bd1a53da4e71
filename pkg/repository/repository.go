package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/consilium-med/consilium/pkg/model"
)

// VectorIndex is the canonical interface over vector index backends. The
// document memory wrapper is written against this interface only; Memory is
// the in-process default and Firestore the hosted variant.
type VectorIndex interface {
	// Upsert stores a document, overwriting any record with the same ID.
	Upsert(ctx context.Context, doc *model.Document) error

	// Query returns up to limit matches ordered by descending similarity.
	Query(ctx context.Context, embedding firestore.Vector32, limit int) ([]*model.Match, error)

	// Delete removes documents by ID. IDs that do not exist are ignored.
	Delete(ctx context.Context, ids ...model.DocumentID) error
}
