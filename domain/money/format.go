// Package money formats store amounts for display.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPKR renders an amount as whole Pakistani rupees with thousands
// grouping, e.g. 4350 → "Rs 4,350". Fractions are rounded half away from zero.
func FormatPKR(amount float64) string {
	return printer.Sprintf("Rs %d", int64(math.Round(amount)))
}
