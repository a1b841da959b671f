package view

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders grouped numbers with en-US separators. The platform pages
// are fixed to en-US formatting; this is not a localization layer.
var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as a dollar string, e.g. 101.5 -> "$101.50".
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatNumber renders a value with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatPercentage renders a signed fixed-precision percentage,
// e.g. 0.42 -> "+0.42%", -1.15 -> "-1.15%". Zero is non-negative.
func FormatPercentage(value float64, decimals int) string {
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.*f%%", sign, decimals, value)
}

// FormatChange renders a price change with its percentage,
// e.g. 1.5, 0.42 -> "+1.50 (+0.42%)".
func FormatChange(change, changePercent float64) string {
	sign := ""
	if change >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f (%s)", sign, change, FormatPercentage(changePercent, 2))
}
