package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by point lookups for unknown exercise ids.
var ErrNotFound = errors.New("exercise not found")

// Fetcher is the single read the generation engine needs.
type Fetcher interface {
	Fetch(ctx context.Context, f Filter) ([]Exercise, error)
}

// Store is the full read contract of the exercise catalog.
type Store interface {
	Fetcher
	FetchByID(ctx context.Context, id string) (*Exercise, error)
	FetchContraindications(ctx context.Context, canonicalName string) ([]string, error)
	Muscles(ctx context.Context) ([]string, error)
	EquipmentCategories(ctx context.Context) ([]string, error)
	InjuryTypes(ctx context.Context) ([]string, error)
	CanonicalNames(ctx context.Context) ([]string, error)
}

// Alternatives returns exercises sharing ex's canonical movement that pass f,
// excluding ex itself.
func Alternatives(ctx context.Context, s Fetcher, ex Exercise, f Filter) ([]Exercise, error) {
	f.CanonicalName = ex.CanonicalName
	f.ExcludeIDs = append(append([]string(nil), f.ExcludeIDs...), ex.ID)
	return s.Fetch(ctx, f)
}
