package checks

import (
	"context"
	"fmt"
	"slices"
)

// ImagePrefix is the bucket prefix every uploaded image lives under.
const ImagePrefix = "images/"

// Lister lists object keys under a prefix.
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// ListImages returns the keys stored under ImagePrefix.
func ListImages(ctx context.Context, bucket Lister) ([]string, error) {
	keys, err := bucket.List(ctx, ImagePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return keys, nil
}

// CompareKeys splits the difference between the recorded and the stored keys.
// missing holds recorded keys without an object, stray holds objects nobody
// records. Both are sorted and never nil.
func CompareKeys(recorded, stored []string) (missing, stray []string) {
	inStore := make(map[string]struct{}, len(stored))
	for _, k := range stored {
		inStore[k] = struct{}{}
	}
	inDB := make(map[string]struct{}, len(recorded))
	missing = []string{}
	for _, k := range recorded {
		inDB[k] = struct{}{}
		if _, ok := inStore[k]; !ok {
			missing = append(missing, k)
		}
	}
	stray = []string{}
	for k := range inStore {
		if _, ok := inDB[k]; !ok {
			stray = append(stray, k)
		}
	}
	slices.Sort(missing)
	missing = slices.Compact(missing)
	slices.Sort(stray)
	return missing, stray
}
