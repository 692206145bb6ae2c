// Package engine is the pure calculation core of Profit Pilot: shipping
// classification, fee and VAT decomposition, profitability aggregation,
// return-rate adjustment, health scoring, scenario comparison and bulk
// analysis. It performs no I/O, holds no mutable state and is safe to call
// from any number of goroutines.
package engine

import "profitpilot/models"

type Engine struct {
	tables   Tables
	defaults Defaults
}

func New(tables Tables, defaults Defaults) *Engine {
	return &Engine{tables: tables, defaults: defaults}
}

// NewDefault builds an engine on the built-in reference tables.
func NewDefault() *Engine {
	return New(DefaultTables(), DefaultSettings())
}

// Tables exposes the injected reference data (read-only by convention).
func (e *Engine) Tables() Tables {
	return e.tables
}

// normalize fills defaults into a copy of the input. The original is never
// mutated; every calculation works on its own normalized copy.
func (e *Engine) normalize(input models.ProductInput) models.ProductInput {
	p := input

	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Country == "" {
		p.Country = e.defaults.Country
	}
	if p.AnnualVolume <= 0 {
		p.AnnualVolume = e.defaults.AnnualVolume
	}
	if p.FixedCosts == 0 {
		p.FixedCosts = e.defaults.FixedCosts
	}
	if p.CashReserve == 0 {
		p.CashReserve = e.defaults.CashReserve
	}
	if p.Market == nil {
		m := e.defaults.Market
		p.Market = &m
	}

	p.SellingPrice = Round2(p.SellingPrice)
	p.COGS = Round2(p.COGS)

	return p
}
