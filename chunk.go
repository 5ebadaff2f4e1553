package docsync

import "context"

// Default chunking parameters, matching the static chunking strategy
// configured on the remote vector store.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 200
)

// ValidateChunking checks the chunk parameters. The stride
// (chunkSize - chunkOverlap) must be at least 1 or the sliding window
// never advances.
func ValidateChunking(chunkSize, chunkOverlap int) error {
	if chunkSize <= 0 {
		return Errorf(EINVALID, "chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return Errorf(EINVALID, "chunk overlap must be non-negative, got %d", chunkOverlap)
	}
	if chunkSize-chunkOverlap < 1 {
		return Errorf(EINVALID, "chunk size %d must exceed overlap %d", chunkSize, chunkOverlap)
	}
	return nil
}

// EstimateChunks predicts how many fixed-size overlapping chunks a
// document of tokenCount tokens will be split into. This is a local
// estimate for operator visibility only; the remote store computes the
// authoritative count server-side and the two are allowed to diverge
// on edge cases.
func EstimateChunks(tokenCount, chunkSize, chunkOverlap int) (int, error) {
	if err := ValidateChunking(chunkSize, chunkOverlap); err != nil {
		return 0, err
	}
	if tokenCount <= 0 {
		return 0, nil
	}
	if tokenCount <= chunkSize {
		return 1, nil
	}
	stride := chunkSize - chunkOverlap
	remaining := tokenCount - chunkSize
	additional := (remaining + stride - 1) / stride
	return 1 + additional, nil
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
