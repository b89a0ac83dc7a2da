package schedule

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/uwhrefbox/refbox/internal/core/period"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

// manager is the subset of *tournament.Manager the poller needs, so tests
// can substitute a fake without constructing a real Manager.
type manager interface {
	SetNextGame(tournament.NextGameInfo)
}

// Poller periodically fetches the next scheduled game from the provider
// and pushes it into the Tournament Manager. Concurrent fetches (a tick
// driver wake racing a manual UI refresh) collapse into a single in-flight
// HTTP round trip via singleflight, the way ticker.Resolver collapses
// concurrent market refreshes.
type Poller struct {
	client *Client
	tm     manager
	sf     singleflight.Group
}

// NewPoller constructs a Poller. tm may be any type satisfying manager,
// normally *tournament.Manager.
func NewPoller(client *Client, tm manager) *Poller {
	return &Poller{client: client, tm: tm}
}

// Refresh fetches the next game once and, if the provider has one queued,
// pushes it into the Tournament Manager.
func (p *Poller) Refresh(ctx context.Context) error {
	v, err, _ := p.sf.Do("next-game", func() (any, error) {
		return p.client.FetchNextGame(ctx)
	})
	if err != nil {
		return err
	}

	wire, _ := v.(*nextGameWire)
	if wire == nil {
		return nil
	}

	info := tournament.NextGameInfo{Number: wire.Number}
	if wire.TimingOverride != nil {
		rules := toRules(*wire.TimingOverride)
		info.TimingOverride = &rules
	}
	if wire.WallClockStart != nil {
		t := *wire.WallClockStart
		info.WallClockStart = &t
	}

	p.tm.SetNextGame(info)
	telemetry.Infof("schedule: pushed next game %d", info.Number)
	return nil
}

// Run polls Refresh on client's rate-limited cadence until ctx is
// canceled. Refresh errors are logged, never fatal — the provider is
// opaque and may be transiently unreachable.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				telemetry.Warnf("schedule: refresh failed: %v", err)
			}
		}
	}
}

func toRules(w timingOverrideWire) period.Rules {
	return period.Rules{
		HalfPlay:       time.Duration(w.HalfPlaySec) * time.Second,
		HalfTime:       time.Duration(w.HalfTimeSec) * time.Second,
		PreOvertime:    time.Duration(w.PreOvertimeSec) * time.Second,
		OTHalfPlay:     time.Duration(w.OTHalfPlaySec) * time.Second,
		OTHalfTime:     time.Duration(w.OTHalfTimeSec) * time.Second,
		PreSuddenDeath: time.Duration(w.PreSuddenDeathSec) * time.Second,
	}
}
