package engine

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"optionbacktest/types"
)

// portfolio is one delta-vega-hedged book. It admits trades against risk
// limits intraday and settles once per date at close of business. All state
// is owned by the enclosing backtest run; nothing here is safe for
// concurrent use.
type portfolio struct {
	agree     bool
	vegaLimit decimal.Decimal
	ir        decimal.Decimal
	cost      decimal.Decimal

	today    time.Time
	snapshot types.MarketSnapshot

	// Option contracts held, by symbol. Entries appear on the first settled
	// trade and are deleted when the symbol drops out of the snapshot
	// (expiry). Absence means not-yet-traded or expired, never an error.
	positions map[string]decimal.Decimal

	// Shares held per underlying, seeded to zero for every underlying in the
	// data set. Entries are never removed.
	stockPositions map[string]decimal.Decimal

	stockDelta map[string]decimal.Decimal
	stockVega  map[string]decimal.Decimal
	totVega    decimal.Decimal
	cash       decimal.Decimal

	// Cumulative PnL per option symbol. Covers the option leg and its
	// delta-hedge offset plus trade PnL; stock rehedge PnL stays in the
	// aggregate only, so these values do not sum to cumTotalPnl.
	contractPnl map[string]decimal.Decimal

	dailyTradePnl    decimal.Decimal
	dailyPositionPnl decimal.Decimal
	dailyTotalPnl    decimal.Decimal
	cumTotalPnl      decimal.Decimal

	// Trades admitted today, applied to cash and positions at settlement.
	pendingTrades []types.Trade
}

func newPortfolio(agree bool, cfg *PortfolioConfig, underlyings []string, snapshot types.MarketSnapshot) *portfolio {
	p := &portfolio{
		agree:          agree,
		vegaLimit:      cfg.vegaLimit,
		ir:             cfg.interestRate,
		cost:           cfg.costRatio,
		today:          snapshot.Date,
		snapshot:       snapshot,
		positions:      make(map[string]decimal.Decimal),
		stockPositions: make(map[string]decimal.Decimal, len(underlyings)),
		stockDelta:     make(map[string]decimal.Decimal, len(underlyings)),
		stockVega:      make(map[string]decimal.Decimal, len(underlyings)),
		contractPnl:    make(map[string]decimal.Decimal),
	}
	for _, u := range underlyings {
		p.stockPositions[u] = decimal.Zero
		p.stockDelta[u] = decimal.Zero
		p.stockVega[u] = decimal.Zero
	}
	return p
}

// handleTrade runs the admission checks in order and short-circuits on the
// first failure. Rejections are logged, never fatal. The vega checks use the
// previous close's multiplier and the execution-time vega; intraday vega
// drift of existing positions is ignored.
func (p *portfolio) handleTrade(trade types.Trade) {
	opt, ok := p.snapshot.Options[trade.Symbol]
	if !ok {
		slog.Info("trade rejected: symbol not in snapshot", "symbol", trade.Symbol, "date", trade.Date)
		return
	}

	if trade.Quantity.Mul(opt.Signal).IsPositive() != p.agree {
		slog.Info("trade rejected: signal direction mismatch",
			"symbol", trade.Symbol, "quantity", trade.Quantity, "signal", opt.Signal, "agree", p.agree)
		return
	}

	tradeVega := trade.Quantity.Mul(trade.Vega).Mul(opt.Multiplier)
	if p.totVega.Add(tradeVega).Abs().GreaterThan(p.vegaLimit) {
		slog.Info("trade rejected: portfolio vega limit",
			"symbol", trade.Symbol, "tradeVega", tradeVega, "totVega", p.totVega, "limit", p.vegaLimit)
		return
	}
	underlyingVega := p.stockVega[opt.Underlying]
	if underlyingVega.Add(tradeVega).Abs().GreaterThan(p.vegaLimit) {
		slog.Info("trade rejected: underlying vega limit",
			"symbol", trade.Symbol, "underlying", opt.Underlying, "tradeVega", tradeVega,
			"underlyingVega", underlyingVega, "limit", p.vegaLimit)
		return
	}

	p.totVega = p.totVega.Add(tradeVega)
	p.stockVega[opt.Underlying] = underlyingVega.Add(tradeVega)
	p.pendingTrades = append(p.pendingTrades, trade)
}

// settle closes out one date. The steps must run in this order: position PnL
// prices yesterday's book before today's trades touch it, trade PnL marks
// today's fills against the new close, then the snapshot rolls over and the
// book is rehedged against the rolled-over marks.
func (p *portfolio) settle(newSnapshot types.MarketSnapshot, date time.Time) {
	p.settlePositions(newSnapshot, date)
	p.settleTrades(newSnapshot)

	p.dailyTotalPnl = p.dailyPositionPnl.Add(p.dailyTradePnl)
	p.cumTotalPnl = p.cumTotalPnl.Add(p.dailyTotalPnl)

	p.snapshot = newSnapshot
	p.rehedge()
	p.today = date
}

// settlePositions marks the existing book from the previous close to the new
// one: interest on cash, option PnL with its delta-hedge offset, and expiry
// realization for symbols that dropped out of the snapshot.
func (p *portfolio) settlePositions(newSnapshot types.MarketSnapshot, date time.Time) {
	days := int64(date.Sub(p.today).Hours() / 24)
	p.dailyPositionPnl = p.cash.Mul(p.ir).Mul(decimal.NewFromInt(days)).Div(decimal.NewFromInt(360))

	for symbol, position := range p.positions {
		prev := p.snapshot.Options[symbol]

		now, ok := newSnapshot.Options[symbol]
		if !ok {
			// Expired: realize the last marked value to cash. No PnL moves;
			// the value was already accrued by prior marks.
			if !prev.Delta.IsZero() {
				slog.Warn("option expired with nonzero delta", "symbol", symbol, "delta", prev.Delta)
			}
			p.cash = p.cash.Add(position.Mul(prev.Multiplier).Mul(prev.Price))
			delete(p.positions, symbol)
			continue
		}

		notional := position.Mul(prev.Multiplier)
		optionPnl := notional.Mul(now.Price.Sub(prev.Price))
		// Hedge offset uses the previous close's delta; the hedge was sized
		// off that delta and not re-measured intraday.
		stockPnl := notional.Mul(prev.Delta).Mul(now.Spot.Sub(prev.Spot)).Neg()

		p.contractPnl[symbol] = p.contractPnl[symbol].Add(optionPnl).Add(stockPnl)
		p.dailyPositionPnl = p.dailyPositionPnl.Add(optionPnl).Add(stockPnl)
	}
}

// settleTrades prices today's admitted trades against the new close, with
// the transaction cost folded into the execution price. Buys pay up, sells
// receive less. Runs strictly after settlePositions so a trade is never
// marked twice on its first day.
func (p *portfolio) settleTrades(newSnapshot types.MarketSnapshot) {
	one := decimal.NewFromInt(1)
	p.dailyTradePnl = decimal.Zero

	for _, trade := range p.pendingTrades {
		opt, ok := newSnapshot.Options[trade.Symbol]
		if !ok {
			slog.Warn("admitted trade dropped: symbol missing at settlement",
				"symbol", trade.Symbol, "date", trade.Date)
			continue
		}

		execPrice := trade.Price
		if trade.Quantity.IsPositive() {
			execPrice = execPrice.Mul(one.Add(p.cost))
		} else {
			execPrice = execPrice.Mul(one.Sub(p.cost))
		}

		notional := trade.Quantity.Mul(opt.Multiplier)
		tradePnl := opt.Price.Sub(execPrice).Mul(notional)

		p.dailyTradePnl = p.dailyTradePnl.Add(tradePnl)
		p.contractPnl[trade.Symbol] = p.contractPnl[trade.Symbol].Add(tradePnl)

		p.cash = p.cash.Sub(execPrice.Mul(notional))
		p.positions[trade.Symbol] = p.positions[trade.Symbol].Add(trade.Quantity)
	}
	p.pendingTrades = nil
}

// rehedge recomputes vega and delta per underlying from scratch over the
// rolled-over book, then trades stock to flatten any remaining delta. Stock
// trades are frictionless. An underlying whose spot is not quoted by any
// held option hedges at spot zero, matching the per-position spot scan.
func (p *portfolio) rehedge() {
	p.totVega = decimal.Zero
	for underlying := range p.stockPositions {
		p.stockDelta[underlying] = decimal.Zero
		p.stockVega[underlying] = decimal.Zero
	}

	spots := make(map[string]decimal.Decimal, len(p.stockPositions))
	for symbol, position := range p.positions {
		opt := p.snapshot.Options[symbol]
		notional := position.Mul(opt.Multiplier)
		delta := opt.Delta.Mul(notional)
		vega := opt.Vega.Mul(notional)

		p.stockDelta[opt.Underlying] = p.stockDelta[opt.Underlying].Add(delta)
		p.stockVega[opt.Underlying] = p.stockVega[opt.Underlying].Add(vega)
		p.totVega = p.totVega.Add(vega)
		spots[opt.Underlying] = opt.Spot
	}

	for underlying, stockPosition := range p.stockPositions {
		remaining := p.stockDelta[underlying].Add(stockPosition)
		p.stockDelta[underlying] = remaining
		if remaining.IsZero() {
			continue
		}
		p.stockPositions[underlying] = stockPosition.Sub(remaining)
		p.cash = p.cash.Add(remaining.Mul(spots[underlying]))
		p.stockDelta[underlying] = decimal.Zero
	}
}
