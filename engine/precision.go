package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money math helpers. Every operation runs on decimals and rounds back to
// two places, so intermediate roundoff stays bounded and reproducible and
// the 0.1+0.2 class of float errors never reaches a result.

const moneyPlaces = 2

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds to display precision for money values.
func Round2(v float64) float64 {
	return Round(v, moneyPlaces)
}

// Add returns a+b rounded to money precision.
func Add(a, b float64) float64 {
	return round2d(decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)))
}

// Sub returns a-b rounded to money precision.
func Sub(a, b float64) float64 {
	return round2d(decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)))
}

// Mul returns a*b rounded to money precision.
func Mul(a, b float64) float64 {
	return round2d(decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)))
}

// Div returns a/b rounded to money precision, or fallback when b is zero.
// Division by zero is a legitimate degenerate input here, never a panic.
func Div(a, b, fallback float64) float64 {
	if b == 0 {
		return fallback
	}
	return round2d(decimal.NewFromFloat(a).DivRound(decimal.NewFromFloat(b), 8))
}

func round2d(d decimal.Decimal) float64 {
	return d.Round(moneyPlaces).InexactFloat64()
}

// ParseNumberSafe turns heterogeneous user input ("1.299,50", "€49.99",
// "1,299.50", " 12 ") into a float64. It never fails; unparseable, empty or
// junk input yields fallback.
func ParseNumberSafe(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	// Strip currency symbols and grouping whitespace.
	replacer := strings.NewReplacer("€", "", "$", "", "£", "", " ", "", " ", "")
	s = replacer.Replace(s)

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// European style: 1.299,50
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// US style: 1,299.50
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		// A single trailing comma group of 1-2 digits is a decimal comma;
		// anything else is thousands separation.
		idx := strings.LastIndex(s, ",")
		if strings.Count(s, ",") == 1 && len(s)-idx-1 <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return fallback
	}
	return d.InexactFloat64()
}
