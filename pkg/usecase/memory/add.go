package memory

import (
	"context"
	"strings"
	"time"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Add stores a single text in the index and returns its ID.
// The ID is a content hash, so adding the same text twice overwrites the
// existing record instead of duplicating it. Metadata is augmented with the
// raw text, an ingestion timestamp and the character count.
func (u *UseCase) Add(ctx context.Context, text string, metadata map[string]any) (model.DocumentID, error) {
	if strings.TrimSpace(text) == "" {
		return "", goerr.Wrap(model.ErrEmptyText, "cannot add document")
	}

	tokens, err := u.embedder.CountTokens(ctx, text)
	if err != nil {
		return "", goerr.Wrap(err, "failed to count tokens")
	}
	if tokens > model.MaxEmbedTokens {
		return "", goerr.Wrap(model.ErrTextTooLong, "cannot add document",
			goerr.V("tokens", tokens), goerr.V("max", model.MaxEmbedTokens))
	}

	embedding, err := u.embedder.Embed(ctx, text)
	if err != nil {
		return "", goerr.Wrap(err, "failed to embed document")
	}

	now := time.Now().UTC()

	md := make(map[string]any, len(metadata)+3)
	for k, v := range metadata {
		md[k] = v
	}
	md["text"] = text
	md["timestamp"] = now.Format(time.RFC3339)
	md["char_count"] = len(text)

	doc := &model.Document{
		ID:        model.NewDocumentID(text),
		Embedding: embedding,
		Metadata:  md,
		CreatedAt: now,
	}

	if err := u.index.Upsert(ctx, doc); err != nil {
		return "", goerr.Wrap(err, "failed to upsert document", goerr.V("id", doc.ID))
	}

	logging.From(ctx).Debug("document added", "id", doc.ID, "chars", len(text))

	return doc.ID, nil
}

// Delete removes documents by ID. Unknown IDs are ignored by the index.
func (u *UseCase) Delete(ctx context.Context, ids ...model.DocumentID) error {
	if err := u.index.Delete(ctx, ids...); err != nil {
		return goerr.Wrap(err, "failed to delete documents")
	}

	logging.From(ctx).Debug("documents deleted", "count", len(ids))
	return nil
}
