package repository_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/repository"
	"github.com/m-mizutani/gt"
)

func newDoc(text string, embedding firestore.Vector32) *model.Document {
	return &model.Document{
		ID:        model.NewDocumentID(text),
		Embedding: embedding,
		Metadata:  map[string]any{"text": text},
		CreatedAt: time.Now(),
	}
}

func TestMemoryUpsertAndQuery(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	gt.NoError(t, repo.Upsert(ctx, newDoc("close", firestore.Vector32{1, 0, 0})))
	gt.NoError(t, repo.Upsert(ctx, newDoc("near", firestore.Vector32{0.9, 0.1, 0})))
	gt.NoError(t, repo.Upsert(ctx, newDoc("far", firestore.Vector32{0, 0, 1})))

	matches, err := repo.Query(ctx, firestore.Vector32{1, 0, 0}, 10)
	gt.NoError(t, err)
	gt.A(t, matches).Length(3)

	// Descending by similarity.
	for i := 1; i < len(matches); i++ {
		gt.V(t, matches[i-1].Score >= matches[i].Score).Equal(true)
	}
	gt.Equal(t, matches[0].ID, model.NewDocumentID("close"))
	gt.Equal(t, matches[0].Metadata["text"], "close")
}

func TestMemoryQueryLimit(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	gt.NoError(t, repo.Upsert(ctx, newDoc("a", firestore.Vector32{1, 0})))
	gt.NoError(t, repo.Upsert(ctx, newDoc("b", firestore.Vector32{0.5, 0.5})))
	gt.NoError(t, repo.Upsert(ctx, newDoc("c", firestore.Vector32{0, 1})))

	matches, err := repo.Query(ctx, firestore.Vector32{1, 0}, 2)
	gt.NoError(t, err)
	gt.A(t, matches).Length(2)
}

func TestMemoryUpsertOverwrites(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	doc := newDoc("same text", firestore.Vector32{1, 0})
	gt.NoError(t, repo.Upsert(ctx, doc))
	gt.NoError(t, repo.Upsert(ctx, doc))
	gt.Equal(t, repo.Len(), 1)
}

func TestMemoryDelete(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	doc := newDoc("to delete", firestore.Vector32{1, 0})
	gt.NoError(t, repo.Upsert(ctx, doc))
	gt.NoError(t, repo.Delete(ctx, doc.ID))
	gt.Equal(t, repo.Len(), 0)

	// Deleting an unknown ID is a no-op.
	gt.NoError(t, repo.Delete(ctx, model.DocumentID("no-such-id")))
}

func TestMemoryQueryEmptyEmbedding(t *testing.T) {
	repo := repository.NewMemory()
	_, err := repo.Query(context.Background(), nil, 5)
	gt.Error(t, err)
}

func TestMemoryUpsertWithoutID(t *testing.T) {
	repo := repository.NewMemory()
	err := repo.Upsert(context.Background(), &model.Document{})
	gt.Error(t, err)
}
