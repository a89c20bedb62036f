package model

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats grouped digits for report lines ($1,296,035 rather than
// $1296035), matching the house report style.
var printer = message.NewPrinter(language.English)

func money(v float64) string {
	if math.IsInf(v, 1) {
		return "unbounded"
	}
	if v < 0 {
		return printer.Sprintf("-$%.0f", -v)
	}
	return printer.Sprintf("$%.0f", v)
}

func count(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func months(v float64) string {
	if math.IsInf(v, 1) {
		return "never"
	}
	return fmt.Sprintf("%.1f months", v)
}
