package gotext

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ResolveMany resolves several references in parallel, at most the manager's
// concurrency limit at a time. Results are in input order. Per-slot fetch
// failures are reported in each Result, not as the returned error.
func (m *Manager) ResolveMany(ctx context.Context, refs []string, req Request) ([]*Result, error) {
	for _, ref := range refs {
		if ref == "" {
			return nil, ErrEmptyReference
		}
	}

	results := make([]*Result, len(refs))

	var g errgroup.Group
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			res, err := m.Resolve(ctx, ref, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
