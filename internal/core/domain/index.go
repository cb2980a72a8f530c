package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// IndexIdentity describes everything a persisted index depends on.
// Two identities with the same Key produce the same index.
type IndexIdentity struct {
	EmbeddingModel string `json:"embedding_model"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
	CorpusDigest   string `json:"corpus_digest"`
}

// Key returns a stable hex digest of the identity.
func (id IndexIdentity) Key() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%s", id.EmbeddingModel, id.ChunkSize, id.ChunkOverlap, id.CorpusDigest)
	return hex.EncodeToString(h.Sum(nil))
}
