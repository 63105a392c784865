package pipeline

import (
	"context"
	"time"
)

// Run refreshes the weather (default city), financial and health datasets
// immediately and then on every tick of interval until ctx is cancelled.
// A non-positive interval disables periodic refresh and marks the pipeline
// ready at once.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		p.ready.Store(true)
		return nil
	}

	p.logger.Info("refresher started", "interval", interval)
	p.metrics.RefresherActive.Set(1)
	defer p.metrics.RefresherActive.Set(0)

	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.refreshAll(ctx)
		if ctx.Err() == nil {
			p.ready.Store(true)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// refreshAll runs one pass. Individual failures are already logged and
// counted by refresh, so they do not stop the pass.
func (p *Pipeline) refreshAll(ctx context.Context) {
	_, _ = p.RefreshWeather(ctx, "")
	_, _ = p.RefreshFinancial(ctx)
	_, _ = p.RefreshHealth(ctx)
}
