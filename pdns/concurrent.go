package pdns

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// defaultFetchConcurrency bounds the number of in-flight detail fetches.
const defaultFetchConcurrency = 10

// FetchZoneDetails fills in full zone data (rrsets included) for the given
// proxies concurrently. Each zone still costs exactly one GET; only the
// scheduling is parallel. Individual failures are logged and skipped so one
// bad zone does not sink the batch.
func (s *Server) FetchZoneDetails(ctx context.Context, zones []*Zone) error {
	if len(zones) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultFetchConcurrency)

	var mu sync.Mutex

	for _, zone := range zones {
		zone := zone
		g.Go(func() error {
			info, err := zone.Get(ctx)
			if err != nil {
				s.client.logger.Warn().
					Err(err).
					Str("zone", zone.ID).
					Msg("Failed to fetch zone details")
				// Continue with the remaining zones
				return nil
			}

			mu.Lock()
			zone.Info = *info
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}
