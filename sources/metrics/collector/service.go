package collector

import (
	"context"
	"time"

	"storyforge/sources/artificial"
	"storyforge/sources/metrics"
	"storyforge/sources/tracing"

	"go.uber.org/fx"
)

const collectPeriod = 1 * time.Minute

type StatsCollector struct {
	log     *tracing.Logger
	metrics *metrics.MetricsService
	ledger  *artificial.CostLedger
	stop    chan struct{}
	done    chan struct{}
}

func NewStatsCollector(
	lc fx.Lifecycle,
	log *tracing.Logger,
	metrics *metrics.MetricsService,
	ledger *artificial.CostLedger,
) *StatsCollector {
	s := &StatsCollector{
		log:     log,
		metrics: metrics,
		ledger:  ledger,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go s.start(collectPeriod)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(s.stop)
			select {
			case <-s.done:
			case <-ctx.Done():
			}
			// final sample so short runs still publish their spend
			s.collectStats()
			return nil
		},
	})

	return s
}

func (s *StatsCollector) start(period time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	s.collectStats()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.collectStats()
		}
	}
}

func (s *StatsCollector) collectStats() {
	total := s.ledger.Total()
	s.metrics.SetTotalCost(total.InexactFloat64())
	s.log.D("Stats collected", tracing.AiTotalCost, total.String())
}
