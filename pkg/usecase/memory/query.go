package memory

import (
	"context"
	"strings"

	"github.com/consilium-med/consilium/pkg/model"
	"github.com/consilium-med/consilium/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// QueryOptions controls retrieval. Zero values take the defaults below.
type QueryOptions struct {
	TopK           int
	ScoreThreshold float64
}

const (
	defaultTopK           = 5
	defaultScoreThreshold = 0.7
)

// Query embeds the query text, searches the index and returns matches
// ordered by descending similarity. Matches scoring below the threshold are
// dropped.
func (u *UseCase) Query(ctx context.Context, text string, opts QueryOptions) ([]*model.Match, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(model.ErrEmptyText, "cannot query")
	}

	if opts.TopK < 1 {
		opts.TopK = defaultTopK
	}
	if opts.ScoreThreshold == 0 {
		opts.ScoreThreshold = defaultScoreThreshold
	}

	embedding, err := u.embedder.Embed(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	hits, err := u.index.Query(ctx, embedding, opts.TopK)
	if err != nil {
		return nil, goerr.Wrap(err, "vector query failed")
	}

	matches := make([]*model.Match, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < opts.ScoreThreshold {
			continue
		}
		matches = append(matches, hit)
	}

	logging.From(ctx).Debug("query completed",
		"hits", len(hits), "kept", len(matches), "threshold", opts.ScoreThreshold)

	return matches, nil
}
