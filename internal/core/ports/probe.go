package ports

import (
	"context"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// Prober runs one scan against a single target and returns the raw
// observations it produced. Implementations wrap external scanners or
// native capture and must respect context cancellation.
type Prober interface {
	// Name identifies the backend in logs and sweep status.
	Name() string

	// Probe scans the target (an IP). A target that does not answer yields
	// an empty slice, not an error.
	Probe(ctx context.Context, target string) ([]domain.Observation, error)
}
