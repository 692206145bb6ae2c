package services

import (
	"strings"
	"sync"

	"profitpilot/engine"
	"profitpilot/models"
)

// PlatformFeeRule is one platform's commission structure: a percentage of
// the gross sale plus a flat per-order charge.
type PlatformFeeRule struct {
	Percent float64 `json:"percent"`
	Flat    float64 `json:"flat"`
}

// PlatformService resolves marketplace-specific fee overrides. When a
// request names a platform without an explicit fee, the schedule here
// computes the override the engine will honor instead of the category
// rate.
type PlatformService struct {
	mutex    sync.RWMutex
	schedule map[string]PlatformFeeRule
}

func NewPlatformService() *PlatformService {
	return &PlatformService{
		schedule: map[string]PlatformFeeRule{
			"amazon-fba": {Percent: 15.0, Flat: 0.00},
			"amazon-fbm": {Percent: 15.0, Flat: 0.00},
			"shopify":    {Percent: 2.9, Flat: 0.30},
			"ebay":       {Percent: 13.25, Flat: 0.30},
			"mercari":    {Percent: 10.0, Flat: 0.00},
		},
	}
}

// Schedule returns a copy of the fee schedule.
func (ps *PlatformService) Schedule() map[string]PlatformFeeRule {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	out := make(map[string]PlatformFeeRule, len(ps.schedule))
	for k, v := range ps.schedule {
		out[k] = v
	}
	return out
}

// RuleFor returns the fee rule for a platform name, case-insensitive.
func (ps *PlatformService) RuleFor(platform string) (PlatformFeeRule, bool) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	rule, ok := ps.schedule[strings.ToLower(strings.TrimSpace(platform))]
	return rule, ok
}

// SetRule adds or replaces a platform's fee rule.
func (ps *PlatformService) SetRule(platform string, rule PlatformFeeRule) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()
	ps.schedule[strings.ToLower(strings.TrimSpace(platform))] = rule
}

// ApplyPlatformFee fills the fee override for inputs that name a platform
// but do not carry an explicit fee. The computed amount and its parts go
// into PlatformFeeDetails so the response can show where the number came
// from. An explicit PlatformFee on the input always wins.
func (ps *PlatformService) ApplyPlatformFee(input *models.ProductInput) {
	if input.Platform == "" || input.PlatformFee != nil {
		return
	}

	rule, ok := ps.RuleFor(input.Platform)
	if !ok {
		return
	}

	percentPart := engine.Mul(input.SellingPrice, rule.Percent/100)
	fee := engine.Add(percentPart, rule.Flat)
	if fee < 0 {
		fee = 0
	}

	input.PlatformFee = &fee
	input.PlatformFeeDetails = map[string]float64{
		"percent":      rule.Percent,
		"percent_part": percentPart,
		"flat":         rule.Flat,
	}
}
