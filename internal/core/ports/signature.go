package ports

import (
	"context"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// SignatureRepository persists the classifier signature set.
type SignatureRepository interface {
	// Load returns the enabled signatures.
	Load(ctx context.Context) (domain.SignatureSet, error)

	// Seed inserts the given set only when the store is empty.
	Seed(ctx context.Context, set domain.SignatureSet) error

	// Import upserts the given set, enabling every entry it names.
	Import(ctx context.Context, set domain.SignatureSet) error

	// Count returns the number of enabled signatures.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}
