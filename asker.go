package docsync

import "context"

// Asker provides natural language question answering over the synced
// documentation corpus.
type Asker interface {
	// Ask answers a question using only the corpus content.
	// Returns ENOTFOUND if the corpus is empty.
	Ask(ctx context.Context, question string) (string, error)
}
