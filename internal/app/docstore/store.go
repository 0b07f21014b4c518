package docstore

import "context"

// Store reads and overwrites the shared document as a whole.
type Store interface {
	// Fetch returns the current document.
	Fetch(ctx context.Context) (Document, error)

	// Overwrite replaces the entire stored document with doc.
	Overwrite(ctx context.Context, doc Document) error
}
