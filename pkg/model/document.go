package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrEmptyText   = goerr.New("text is empty")
	ErrTextTooLong = goerr.New("text exceeds embedding token budget")
)

// MaxEmbedTokens is the token ceiling accepted by the embedding provider.
// Texts longer than this are rejected before any remote call.
const MaxEmbedTokens = 8191

type DocumentID string

// NewDocumentID derives a deterministic ID from the document text. The same
// text always yields the same ID, so re-adding a document overwrites the
// previous record instead of duplicating it.
func NewDocumentID(text string) DocumentID {
	sum := sha256.Sum256([]byte(text))
	return DocumentID(hex.EncodeToString(sum[:]))
}

// Document is a stored embedding vector with its metadata. The metadata map
// always carries at least "text", "timestamp" and "char_count" entries set
// during ingestion.
type Document struct {
	ID        DocumentID
	Embedding firestore.Vector32
	Metadata  map[string]any
	CreatedAt time.Time
}

// Match is a single similarity search hit. Score is cosine similarity;
// higher means more similar.
type Match struct {
	ID       DocumentID
	Score    float64
	Metadata map[string]any
}

// Text returns the raw document text recorded in the match metadata.
func (m *Match) Text() string {
	if s, ok := m.Metadata["text"].(string); ok {
		return s
	}
	return ""
}
