package poller

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/technicallyty/poolstat/mempool"
	"github.com/technicallyty/poolstat/metrics"
	"github.com/technicallyty/poolstat/present"
	"github.com/technicallyty/poolstat/stats"
)

const (
	DefaultRequests = 10
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 100 * time.Millisecond

	// maxPoolSample bounds the per-category sample kept for the pool view.
	maxPoolSample = 50
)

// Fetcher issues one txpool_content request.
type Fetcher interface {
	TxPoolContent(ctx context.Context, id int) (*mempool.Content, error)
}

type Config struct {
	// Requests is the number of iterations. Ignored when Unbounded is set.
	Requests  int
	Unbounded bool
	Timeout   time.Duration
	Interval  time.Duration
	// MaxConsecutiveFailures aborts the run after that many failures in a
	// row. Zero disables the check.
	MaxConsecutiveFailures int
}

// Poller drives the sequential request loop. It is the only writer of its
// aggregator.
type Poller struct {
	fetcher   Fetcher
	agg       *stats.Aggregator
	presenter present.Presenter
	collector metrics.Collector
	logger    zerolog.Logger
	cfg       Config
	stops     []StopCondition
}

func New(
	fetcher Fetcher,
	agg *stats.Aggregator,
	presenter present.Presenter,
	collector metrics.Collector,
	logger zerolog.Logger,
	cfg Config,
	stops ...StopCondition,
) *Poller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Interval < 0 {
		cfg.Interval = 0
	}
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}
	if cfg.MaxConsecutiveFailures > 0 {
		stops = append(stops, MaxConsecutiveFailures(cfg.MaxConsecutiveFailures))
	}
	return &Poller{
		fetcher:   fetcher,
		agg:       agg,
		presenter: presenter,
		collector: collector,
		logger:    logger.With().Str("component", "poller").Logger(),
		cfg:       cfg,
		stops:     stops,
	}
}

// Run polls until the configured count is reached, a stop condition fires or
// ctx is cancelled. Failed requests never end the run on their own. The
// presenter sees the state after every iteration and once more at the end.
func (p *Poller) Run(ctx context.Context) error {
	start := time.Now()
	defer func() {
		p.presenter.Render(p.agg.Snapshot(), time.Since(start))
	}()

	for i := 0; p.cfg.Unbounded || i < p.cfg.Requests; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.poll(ctx, i)

		snap := p.agg.Snapshot()
		p.collector.SnapshotUpdated(snap)
		p.presenter.Render(snap, time.Since(start))

		for _, stop := range p.stops {
			if err := stop.ShouldStop(snap); err != nil {
				p.logger.Warn().Err(err).Int("request", i).Msg("stopping run")
				return err
			}
		}

		if err := sleep(ctx, p.cfg.Interval); err != nil {
			return err
		}
	}

	return nil
}

func (p *Poller) poll(ctx context.Context, id int) {
	p.agg.RecordRequestSent()
	p.collector.RequestSent()

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	begin := time.Now()
	content, err := p.fetcher.TxPoolContent(reqCtx, id)
	elapsed := time.Since(begin)
	if err != nil {
		kind := mempool.KindOf(err)
		p.agg.RecordFailure(kind)
		p.collector.RequestFailed(kind)

		event := p.logger.Error()
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			event = p.logger.Debug()
		}
		event.Err(err).Int("request", id).Str("kind", string(kind)).Msg("request failed")
		return
	}

	p.agg.RecordResponse(elapsed)
	p.collector.ResponseReceived(elapsed)

	if rpcErr := content.RPCError(); rpcErr != nil {
		p.agg.RecordRPCError()
		p.logger.Warn().Err(rpcErr).Int("request", id).Msg("endpoint returned an error object")
	}

	mempool.Fold(content, p.agg)
	for _, category := range mempool.Categories {
		p.agg.RecordPool(category, content.Summaries(category, maxPoolSample))
	}

	p.logger.Debug().
		Int("request", id).
		Dur("elapsed", elapsed).
		Msg("response folded")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
