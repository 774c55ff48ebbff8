package collector

import (
	"strings"
	"testing"

	"storyforge/sources/artificial"
	"storyforge/sources/metrics"
	"storyforge/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestCollectorPublishesLedgerTotal(t *testing.T) {
	ledger := artificial.NewCostLedger()

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(ledger),
		fx.Provide(tracing.NewNopLogger),
		metrics.Module,
		Module,
	)
	app.RequireStart()

	ledger.Add(decimal.RequireFromString("0.125"))
	app.RequireStop()

	expected := `
# HELP storyforge_stats_total_cost Running total recorded by the cost ledger
# TYPE storyforge_stats_total_cost gauge
storyforge_stats_total_cost 0.125
`
	if err := testutil.GatherAndCompare(prometheus.DefaultGatherer, strings.NewReader(expected), "storyforge_stats_total_cost"); err != nil {
		t.Error(err)
	}
}
