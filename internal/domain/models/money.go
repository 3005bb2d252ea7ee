package models

import "fmt"

// FormatUSD renders an amount the way directory listings show it:
// $1.2B, $3.4M, $5.6K or $700. Nil or zero renders as "N/A".
func FormatUSD(amount *float64) string {
	if amount == nil || *amount == 0 {
		return "N/A"
	}
	a := *amount
	switch {
	case a >= 1e9:
		return fmt.Sprintf("$%.1fB", a/1e9)
	case a >= 1e6:
		return fmt.Sprintf("$%.1fM", a/1e6)
	case a >= 1e3:
		return fmt.Sprintf("$%.1fK", a/1e3)
	}
	return fmt.Sprintf("$%.0f", a)
}
