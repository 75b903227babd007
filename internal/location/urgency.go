package location

// Heatmap colours, from most oversupplied to least undersupplied.
const (
	ColorVeryOversupplied = "#15803d"
	ColorOversupplied     = "#22c55e"
	ColorSevereDeficit    = "#7f1d1d"
	ColorCriticalDeficit  = "#991b1b"
	ColorHighDeficit      = "#dc2626"
	ColorMediumDeficit    = "#f87171"
	ColorLowDeficit       = "#fca5a5"
)

// ClassifyUrgency maps a current/required supply pair to a stored urgency
// level. Bands are evaluated top-down and the first match wins.
func ClassifyUrgency(current, required float64) UrgencyLevel {
	ratio := current / required
	switch {
	case ratio > 1.0:
		return UrgencyOversupplied
	case ratio < 0.3:
		return UrgencyCritical
	case ratio < 0.5:
		return UrgencyHigh
	case ratio < 0.8:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// SupplyLevel returns the supply figure for the given view. Current and
// performed read the same field; there is no separate delivery ledger.
func SupplyLevel(l *Location, view View) float64 {
	if view == ViewPromised {
		return l.PromisedSupply
	}
	return l.CurrentSupply
}

// SupplyRatio returns SupplyLevel divided by RequiredSupply.
func SupplyRatio(l *Location, view View) float64 {
	return SupplyLevel(l, view) / l.RequiredSupply
}

// UrgencyColor projects the supply ratio for a view onto a seven-band colour
// scale. It ignores the stored UrgencyLevel.
func UrgencyColor(l *Location, view View) string {
	return ColorForRatio(SupplyRatio(l, view))
}

// ColorForRatio maps a supply ratio onto the heatmap colour scale.
func ColorForRatio(ratio float64) string {
	switch {
	case ratio > 1.2:
		return ColorVeryOversupplied
	case ratio > 1.0:
		return ColorOversupplied
	case ratio < 0.2:
		return ColorSevereDeficit
	case ratio < 0.4:
		return ColorCriticalDeficit
	case ratio < 0.6:
		return ColorHighDeficit
	case ratio < 0.8:
		return ColorMediumDeficit
	default:
		return ColorLowDeficit
	}
}

// SupplyDeficit returns how many days short of RequiredSupply the location is
// under the given view. Never negative; a NaN difference counts as zero.
func SupplyDeficit(l *Location, view View) float64 {
	deficit := l.RequiredSupply - SupplyLevel(l, view)
	if !(deficit > 0) {
		return 0
	}
	return deficit
}
