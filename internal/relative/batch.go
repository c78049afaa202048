package relative

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves inputs concurrently with at most limit in flight
// (unlimited when limit <= 0). Outputs keep the order of inputs. The first
// failure cancels the remaining work and is returned without partial
// results.
func (r *Resolver) ResolveAll(ctx context.Context, inputs []Input, limit int) ([]Output, error) {
	out := make([]Output, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Resolve(in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
