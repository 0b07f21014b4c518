package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"digame/internal/pkg/logx"
)

// DefaultPollInterval is the cadence of poll cycles.
const DefaultPollInterval = 4 * time.Second

// Poller drives Client.Sync on a fixed interval, once immediately and then every tick,
// regardless of earlier failures.
type Poller struct {
	// the client kept in sync.
	client *Client

	// time between two cycles.
	interval time.Duration

	// called with the client view after every cycle, successful or not. May be nil.
	onTick func(View)

	// structured logger with poller context.
	logger zerolog.Logger
}

// NewPoller creates a poller for client. A non-positive interval falls back to DefaultPollInterval.
func NewPoller(client *Client, interval time.Duration, onTick func(View)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Poller{
		client:   client,
		interval: interval,
		onTick:   onTick,
		logger:   logx.Logger().With().Str("component", "poller").Dur("interval", interval).Logger(),
	}
}

// Run polls until ctx is cancelled. The ticker is stopped on return.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().Msg("Poll loop started.")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-ticker.C:
			p.tick(ctx)

		case <-ctx.Done():
			p.logger.Info().Msg("Poll loop stopped.")
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.client.Sync(ctx); err != nil && ctx.Err() != nil {
		return
	}

	if p.onTick != nil {
		p.onTick(p.client.Snapshot())
	}
}
