package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleFor_CaseInsensitive(t *testing.T) {
	ps := NewPlatformService()

	rule, ok := ps.RuleFor("Amazon-FBA")
	require.True(t, ok)
	assert.Equal(t, 15.0, rule.Percent)

	rule, ok = ps.RuleFor("  SHOPIFY ")
	require.True(t, ok)
	assert.Equal(t, 2.9, rule.Percent)
	assert.Equal(t, 0.30, rule.Flat)

	_, ok = ps.RuleFor("etsy")
	assert.False(t, ok)
}

func TestApplyPlatformFee_Shopify(t *testing.T) {
	ps := NewPlatformService()

	input := speakerInput()
	input.Platform = "shopify"
	input.SellingPrice = 100

	ps.ApplyPlatformFee(&input)

	require.NotNil(t, input.PlatformFee)
	assert.Equal(t, 3.20, *input.PlatformFee) // 2.9% of 100 plus 0.30
	assert.Equal(t, 2.9, input.PlatformFeeDetails["percent"])
	assert.Equal(t, 0.30, input.PlatformFeeDetails["flat"])
}

func TestApplyPlatformFee_ExplicitFeeWins(t *testing.T) {
	ps := NewPlatformService()

	explicit := 7.50
	input := speakerInput()
	input.Platform = "ebay"
	input.PlatformFee = &explicit

	ps.ApplyPlatformFee(&input)

	assert.Equal(t, 7.50, *input.PlatformFee)
	assert.Nil(t, input.PlatformFeeDetails)
}

func TestApplyPlatformFee_NoPlatform(t *testing.T) {
	ps := NewPlatformService()

	input := speakerInput()
	ps.ApplyPlatformFee(&input)

	assert.Nil(t, input.PlatformFee)
}

func TestSetRule_Overrides(t *testing.T) {
	ps := NewPlatformService()

	ps.SetRule("Etsy", PlatformFeeRule{Percent: 6.5, Flat: 0.20})

	rule, ok := ps.RuleFor("etsy")
	require.True(t, ok)
	assert.Equal(t, 6.5, rule.Percent)
	assert.Equal(t, 0.20, rule.Flat)
}
