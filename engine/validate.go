package engine

import (
	"fmt"

	"profitpilot/models"
)

// Validate inspects a raw ProductInput and returns field-tagged findings.
// Errors block the calculation; warnings and info ride along on the result.
func Validate(input models.ProductInput) []models.ValidationMessage {
	var msgs []models.ValidationMessage

	if input.Name == "" {
		msgs = append(msgs, models.ValidationMessage{
			Field: "name", Message: "product name is empty", Severity: models.SeverityInfo,
		})
	}

	if input.SellingPrice < 0 {
		msgs = append(msgs, models.ValidationMessage{
			Field: "selling_price", Message: "selling price must not be negative", Severity: models.SeverityError,
		})
	}
	if input.SellingPrice == 0 {
		msgs = append(msgs, models.ValidationMessage{
			Field: "selling_price", Message: "selling price is zero; margin and ROI will be zero", Severity: models.SeverityWarning,
		})
	}

	if input.COGS < 0 {
		msgs = append(msgs, models.ValidationMessage{
			Field: "cogs", Message: "cost of goods must not be negative", Severity: models.SeverityError,
		})
	}
	if input.SellingPrice > 0 && input.COGS >= input.SellingPrice {
		msgs = append(msgs, models.ValidationMessage{
			Field: "cogs", Message: "cost of goods meets or exceeds the selling price", Severity: models.SeverityWarning,
		})
	}

	for _, d := range []struct {
		field string
		value float64
	}{
		{"length_cm", input.LengthCm},
		{"width_cm", input.WidthCm},
		{"height_cm", input.HeightCm},
		{"weight_kg", input.WeightKg},
	} {
		if d.value < 0 {
			msgs = append(msgs, models.ValidationMessage{
				Field: d.field, Message: "must not be negative", Severity: models.SeverityError,
			})
		}
	}

	if input.ReturnRate < 0 || input.ReturnRate > 100 {
		msgs = append(msgs, models.ValidationMessage{
			Field: "return_rate", Message: "return rate must be between 0 and 100", Severity: models.SeverityError,
		})
	}

	if input.AnnualVolume < 0 {
		msgs = append(msgs, models.ValidationMessage{
			Field: "annual_volume", Message: "sales volume must not be negative", Severity: models.SeverityError,
		})
	}

	if input.PlatformFee != nil && *input.PlatformFee < 0 {
		msgs = append(msgs, models.ValidationMessage{
			Field: "platform_fee", Message: "platform fee override must not be negative", Severity: models.SeverityError,
		})
	}
	if input.ShippingOverride != nil && *input.ShippingOverride < 0 {
		msgs = append(msgs, models.ValidationMessage{
			Field: "shipping_override", Message: "shipping override must not be negative", Severity: models.SeverityError,
		})
	}
	if input.PlatformFee != nil && input.SellingPrice > 0 && *input.PlatformFee > input.SellingPrice {
		msgs = append(msgs, models.ValidationMessage{
			Field: "platform_fee", Message: fmt.Sprintf("platform fee %.2f exceeds the selling price", *input.PlatformFee), Severity: models.SeverityWarning,
		})
	}

	return msgs
}

// nonBlocking filters the messages that attach to a successful result.
func nonBlocking(msgs []models.ValidationMessage) []models.ValidationMessage {
	var out []models.ValidationMessage
	for _, m := range msgs {
		if m.Severity != models.SeverityError {
			out = append(out, m)
		}
	}
	return out
}
