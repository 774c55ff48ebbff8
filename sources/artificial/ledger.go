package artificial

import (
	"sync"

	"github.com/shopspring/decimal"
)

// CostLedger is the running USD total of every successful backend call. It never decreases.
type CostLedger struct {
	mu     sync.Mutex
	total  decimal.Decimal
	tokens int64
}

func NewCostLedger() *CostLedger {
	return &CostLedger{total: decimal.Zero}
}

// Add returns the total including cost.
func (l *CostLedger) Add(cost decimal.Decimal) decimal.Decimal {
	if cost.IsNegative() {
		cost = decimal.Zero
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.total = l.total.Add(cost)
	return l.total
}

// CountTokens adds input plus output tokens of a successful call.
func (l *CostLedger) CountTokens(tokens int) {
	if tokens <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens += int64(tokens)
}

func (l *CostLedger) Tokens() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokens
}

func (l *CostLedger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
