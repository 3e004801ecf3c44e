package client

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/keyfleet/keyfleet/internal/query"
)

// spendFetchers caps concurrent per-key spend requests in the overview
// cascade so a team with many keys does not stampede the server.
const spendFetchers = 8

// SpendTotal is an aggregate over per-key spend. Partial is true when one or
// more keys contributed no spend figure, so Total understates actual spend.
type SpendTotal struct {
	Total   float64
	Partial bool
}

// TeamOverview is the composite view a console renders for one team: the
// team with its products, its provisioned keys, and aggregate spend.
type TeamOverview struct {
	Team  *Team
	Keys  []PrivateAIKey
	Spend SpendTotal
}

// TeamOverview fetches the dependent data for one team as an explicit
// cascade: the team (with products joined), then its keys, then each key's
// spend concurrently. A failed team or key fetch fails the whole cascade; a
// failed per-key spend fetch only marks the total as partial.
func (c *Client) TeamOverview(ctx context.Context, teamID int64) (*TeamOverview, error) {
	team, err := c.Teams.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}

	keys, err := c.Keys.List(ctx, &KeyListOptions{TeamID: &teamID})
	if err != nil {
		return nil, err
	}

	spends := make([]*float64, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(spendFetchers)

	var mu sync.Mutex
	for i, key := range keys {
		g.Go(func() error {
			report, err := c.Keys.Spend(gctx, key.ID)
			if err != nil {
				// Unauthorized aborts the cascade; anything else leaves
				// this key's spend unknown.
				if IsUnauthorized(err) {
					return err
				}
				return nil
			}
			mu.Lock()
			spends[i] = &report.Spend
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TeamOverview{
		Team:  team,
		Keys:  keys,
		Spend: aggregateSpend(spends),
	}, nil
}

// aggregateSpend sums known per-key spend. Unknown entries (nil) are not
// treated as zero; they flip the Partial flag instead.
func aggregateSpend(spends []*float64) SpendTotal {
	agg := query.AggregateSpend(spends)
	return SpendTotal{Total: agg.Total, Partial: agg.Partial}
}
