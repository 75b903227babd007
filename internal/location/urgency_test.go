package location_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aidlink/aidlink/internal/location"
)

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		required float64
		want     location.UrgencyLevel
	}{
		{"empty", 0, 7, location.UrgencyCritical},
		{"just below critical", 2.09, 7, location.UrgencyCritical},
		{"critical boundary is high", 2.1, 7, location.UrgencyHigh},
		{"high", 3.4, 7, location.UrgencyHigh},
		{"high boundary is medium", 3.5, 7, location.UrgencyMedium},
		{"medium", 5.5, 7, location.UrgencyMedium},
		{"medium boundary is low", 5.6, 7, location.UrgencyLow},
		{"exactly required is low", 7, 7, location.UrgencyLow},
		{"oversupplied", 7.01, 7, location.UrgencyOversupplied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, location.ClassifyUrgency(tt.current, tt.required))
		})
	}
}

func TestColorForRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.5, location.ColorVeryOversupplied},
		{1.2, location.ColorOversupplied},
		{1.01, location.ColorOversupplied},
		{1.0, location.ColorLowDeficit},
		{0.8, location.ColorLowDeficit},
		{0.79, location.ColorMediumDeficit},
		{0.59, location.ColorHighDeficit},
		{0.39, location.ColorCriticalDeficit},
		{0.2, location.ColorCriticalDeficit},
		{0.19, location.ColorSevereDeficit},
		{0, location.ColorSevereDeficit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, location.ColorForRatio(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestUrgencyColor_Examples(t *testing.T) {
	critical := &location.Location{CurrentSupply: 0.8, RequiredSupply: 7}
	assert.Equal(t, location.UrgencyCritical, location.ClassifyUrgency(critical.CurrentSupply, critical.RequiredSupply))
	assert.Equal(t, "#7f1d1d", location.UrgencyColor(critical, location.ViewCurrent))

	over := &location.Location{CurrentSupply: 8.4, RequiredSupply: 7}
	assert.Equal(t, "#22c55e", location.UrgencyColor(over, location.ViewCurrent))
}

func TestUrgencyColor_IgnoresStoredLevel(t *testing.T) {
	l := &location.Location{CurrentSupply: 6.5, RequiredSupply: 7, UrgencyLevel: location.UrgencyCritical}
	assert.Equal(t, location.ColorLowDeficit, location.UrgencyColor(l, location.ViewCurrent))
}

func TestSupplyLevel_Views(t *testing.T) {
	l := &location.Location{CurrentSupply: 2, PromisedSupply: 5, RequiredSupply: 7}

	assert.Equal(t, 2.0, location.SupplyLevel(l, location.ViewCurrent))
	assert.Equal(t, 2.0, location.SupplyLevel(l, location.ViewPerformed))
	assert.Equal(t, 5.0, location.SupplyLevel(l, location.ViewPromised))

	assert.Equal(t, location.UrgencyColor(l, location.ViewCurrent), location.UrgencyColor(l, location.ViewPerformed))
	assert.Equal(t, location.ColorMediumDeficit, location.UrgencyColor(l, location.ViewPromised))
}

func TestSupplyDeficit(t *testing.T) {
	l := &location.Location{CurrentSupply: 2, PromisedSupply: 9, RequiredSupply: 7}

	assert.Equal(t, 5.0, location.SupplyDeficit(l, location.ViewCurrent))
	assert.Equal(t, 0.0, location.SupplyDeficit(l, location.ViewPromised))

	nan := &location.Location{CurrentSupply: math.NaN(), RequiredSupply: 7}
	assert.Equal(t, 0.0, location.SupplyDeficit(nan, location.ViewCurrent))
}

func TestSupplyDeficit_NeverNegative(t *testing.T) {
	for _, supply := range []float64{0, 1, 6.99, 7, 7.01, 100} {
		l := &location.Location{CurrentSupply: supply, PromisedSupply: supply, RequiredSupply: 7}
		for _, view := range []location.View{location.ViewCurrent, location.ViewPromised, location.ViewPerformed} {
			assert.GreaterOrEqual(t, location.SupplyDeficit(l, view), 0.0)
		}
	}
}

func TestParseView(t *testing.T) {
	v, ok := location.ParseView("")
	assert.True(t, ok)
	assert.Equal(t, location.ViewCurrent, v)

	v, ok = location.ParseView("promised")
	assert.True(t, ok)
	assert.Equal(t, location.ViewPromised, v)

	_, ok = location.ParseView("forecast")
	assert.False(t, ok)
}
