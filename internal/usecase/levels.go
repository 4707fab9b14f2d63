package usecase

import (
	"math"

	"TradeFire/internal/domain/models"
)

const (
	DefaultStopLossPct   = 0.015
	DefaultTakeProfitPct = 0.03
)

// LevelCalculator derives stop-loss and take-profit prices from an entry price.
type LevelCalculator struct {
	stopLossPct   float64
	takeProfitPct float64
}

// NewLevelCalculator returns a calculator using the given fractions
// (0.015 = 1.5%). Non-positive values fall back to the defaults.
func NewLevelCalculator(stopLossPct, takeProfitPct float64) *LevelCalculator {
	if stopLossPct <= 0 || math.IsNaN(stopLossPct) {
		stopLossPct = DefaultStopLossPct
	}
	if takeProfitPct <= 0 || math.IsNaN(takeProfitPct) {
		takeProfitPct = DefaultTakeProfitPct
	}
	return &LevelCalculator{stopLossPct: stopLossPct, takeProfitPct: takeProfitPct}
}

// Compute never fails. Finite overrides are returned verbatim; the rest is
// derived from price, and without a price nothing is derived.
func (c *LevelCalculator) Compute(dir models.Direction, price, overrideSL, overrideTP *float64) models.Levels {
	var lv models.Levels
	if finite(overrideSL) {
		lv.StopLoss = models.Float(*overrideSL)
	}
	if finite(overrideTP) {
		lv.TakeProfit = models.Float(*overrideTP)
	}
	if !finite(price) {
		return lv
	}

	p := *price
	var sl, tp float64
	switch dir {
	case models.DirectionLong:
		sl, tp = p*(1-c.stopLossPct), p*(1+c.takeProfitPct)
	case models.DirectionShort:
		sl, tp = p*(1+c.stopLossPct), p*(1-c.takeProfitPct)
	default:
		return lv
	}
	if lv.StopLoss == nil {
		lv.StopLoss = models.Float(sl)
	}
	if lv.TakeProfit == nil {
		lv.TakeProfit = models.Float(tp)
	}
	return lv
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
