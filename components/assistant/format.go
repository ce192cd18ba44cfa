package assistant

import (
	"fmt"
	"html"
)

// HealthTier is the color classification applied to the health score.
type HealthTier string

const (
	TierPositive HealthTier = "positive"
	TierCaution  HealthTier = "caution"
	TierWarning  HealthTier = "warning"
)

// ClassifyHealthScore maps a 0-100 score onto its tier: >=80 positive,
// 60-79 caution, below 60 warning.
func ClassifyHealthScore(score int) HealthTier {
	switch {
	case score >= 80:
		return TierPositive
	case score >= 60:
		return TierCaution
	default:
		return TierWarning
	}
}

// ChangeTone colors a net-change amount by sign.
type ChangeTone string

const (
	ToneGain ChangeTone = "positive"
	ToneLoss ChangeTone = "negative"
)

// NetChangeTone returns the tone for a net-change value; zero counts as a gain.
func NetChangeTone(v float64) ChangeTone {
	if v < 0 {
		return ToneLoss
	}
	return ToneGain
}

// FormatCurrency renders a dollar amount the way the summary cards expect:
// "$100.50", "$-20.00".
func FormatCurrency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// EscapeText escapes HTML-significant characters so chat text renders as
// text, never as markup. Applied to every transcript entry before it is
// placed into a template payload.
func EscapeText(s string) string {
	return html.EscapeString(s)
}
