// Package format renders calculated values as display strings.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/lead-budget/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered for values that cannot be displayed.
const NotAvailable = "n/a"

// Formatter formats currency, counts and percentages for one locale. When the
// locale cannot be parsed it falls back to comma-grouped integers.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "en-NZ".
func NewFormatter(locale, symbol string) *Formatter {
	f := &Formatter{symbol: symbol}
	tag, err := language.Parse(locale)
	if err != nil {
		return f
	}
	f.printer = message.NewPrinter(tag)
	return f
}

// Default returns a Formatter for the application's default locale.
func Default() *Formatter {
	return NewFormatter(constants.DefaultLocale, constants.DefaultCurrencySymbol)
}

// Currency formats amount with no decimal places, e.g. "-$1,234".
func (f *Formatter) Currency(amount float64) string {
	return f.CurrencyPrecise(amount, 0)
}

// CurrencyPrecise formats amount with the given number of decimals.
func (f *Formatter) CurrencyPrecise(amount float64, decimals int) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotAvailable
	}
	if decimals < 0 {
		decimals = 0
	}
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(math.Abs(amount)*scale) / scale
	sign := ""
	if amount < 0 && rounded != 0 {
		sign = "-"
	}
	return sign + f.symbol + f.number(rounded, decimals)
}

// Count formats v as a rounded, grouped integer.
func (f *Formatter) Count(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	rounded := math.Round(v)
	if rounded < 0 {
		return "-" + f.number(-rounded, 0)
	}
	return f.number(rounded, 0)
}

// Percent formats v, which is already expressed in percent, e.g. "12.5%".
func (f *Formatter) Percent(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	if decimals < 0 {
		decimals = 0
	}
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(math.Abs(v)*scale) / scale
	sign := ""
	if v < 0 && rounded != 0 {
		sign = "-"
	}
	return sign + f.number(rounded, decimals) + "%"
}

// Fraction formats a 0-1 value as a percentage.
func (f *Formatter) Fraction(v float64, decimals int) string {
	return f.Percent(v*constants.PercentageMultiplier, decimals)
}

// Ratio formats v as "x.y:1".
func (f *Formatter) Ratio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	rounded := math.Round(math.Abs(v)*10) / 10
	sign := ""
	if v < 0 && rounded != 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s:1", sign, f.number(rounded, 1))
}

// number formats a non-negative value.
func (f *Formatter) number(v float64, decimals int) string {
	if f.printer != nil {
		return f.printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
	}
	return groupDigits(fmt.Sprintf("%.*f", decimals, v))
}

// groupDigits inserts comma separators into the integer part of a formatted
// non-negative number.
func groupDigits(formatted string) string {
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}

// NumericCurrency returns an amount with two decimals and separators but no
// currency symbol (e.g., "-1,234.56"). Non-finite values render as "n/a".
func NumericCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotAvailable
	}
	rounded := math.Round(math.Abs(amount)*100) / 100
	sign := ""
	if amount < 0 && rounded != 0 {
		sign = "-"
	}
	return sign + groupDigits(fmt.Sprintf("%.2f", rounded))
}
