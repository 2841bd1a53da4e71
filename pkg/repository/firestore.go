package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/consilium-med/consilium/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const distanceField = "vector_distance"

// record is the Firestore document shape. Distance is populated by the
// vector query result field on reads and never written.
type record struct {
	ID        string             `firestore:"id"`
	Embedding firestore.Vector32 `firestore:"embedding"`
	Metadata  map[string]any     `firestore:"metadata"`
	CreatedAt time.Time          `firestore:"created_at"`
	Distance  float64            `firestore:"vector_distance"`
}

// Firestore implements VectorIndex on a Firestore collection using
// FindNearest with cosine distance. The collection needs a vector index on
// the embedding field; Firestore handles consistency server-side.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a Firestore-backed vector index.
func NewFirestore(ctx context.Context, projectID, databaseID, collection string) (*Firestore, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is required")
	}
	if databaseID == "" {
		return nil, goerr.New("database ID is required")
	}
	if collection == "" {
		return nil, goerr.New("collection name is required")
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client, collection: collection}, nil
}

// Close releases the underlying client.
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) Upsert(ctx context.Context, doc *model.Document) error {
	if doc == nil || doc.ID == "" {
		return goerr.New("document ID is empty")
	}

	rec := map[string]any{
		"id":         string(doc.ID),
		"embedding":  doc.Embedding,
		"metadata":   doc.Metadata,
		"created_at": doc.CreatedAt,
	}

	if _, err := r.client.Collection(r.collection).Doc(string(doc.ID)).Set(ctx, rec); err != nil {
		return goerr.Wrap(err, "failed to upsert document", goerr.V("id", doc.ID))
	}

	return nil
}

func (r *Firestore) Query(ctx context.Context, embedding firestore.Vector32, limit int) ([]*model.Match, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is empty")
	}
	if limit < 1 {
		limit = 10
	}

	query := r.client.Collection(r.collection).FindNearest(
		"embedding",
		embedding,
		limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{
			DistanceResultField: distanceField,
		},
	)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var matches []*model.Match
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "vector query failed", goerr.V("collection", r.collection))
		}

		var rec record
		if err := snap.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc", snap.Ref.ID))
		}

		// Cosine distance is in [0, 2]; expose similarity so that the
		// wrapper's threshold applies uniformly across backends.
		matches = append(matches, &model.Match{
			ID:       model.DocumentID(rec.ID),
			Score:    1 - rec.Distance,
			Metadata: rec.Metadata,
		})
	}

	return matches, nil
}

func (r *Firestore) Delete(ctx context.Context, ids ...model.DocumentID) error {
	// Firestore treats deleting a missing document as a no-op, matching the
	// VectorIndex contract.
	for _, id := range ids {
		if _, err := r.client.Collection(r.collection).Doc(string(id)).Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete document", goerr.V("id", id))
		}
	}
	return nil
}
