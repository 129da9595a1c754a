package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEMI_ZeroRateIsStraightLine(t *testing.T) {
	assert.Equal(t, 500000.0/60, EMI(500000, 0, 60))
}

func TestEMI_ReferenceExample(t *testing.T) {
	a := Amortize(500000, 8.5, 60)

	assert.InDelta(t, 10258, a.EMI, 1)
	assert.InDelta(t, 615480, a.TotalAmount, 20)
	assert.InDelta(t, 115480, a.TotalInterest, 20)
}

func TestEMI_InvalidInputYieldsZero(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		months    int
	}{
		{"zero months", 100000, 10, 0},
		{"negative months", 100000, 10, -12},
		{"negative principal", -100000, 10, 12},
		{"negative rate", 100000, -1, 12},
		{"NaN principal", math.NaN(), 10, 12},
		{"infinite rate", 100000, math.Inf(1), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, EMI(tt.principal, tt.rate, tt.months))
			assert.Equal(t, Amortization{}, Amortize(tt.principal, tt.rate, tt.months))
		})
	}
}

func TestAmortize_TotalsAreConsistent(t *testing.T) {
	for _, principal := range []float64{1000, 250000, 5_000_000} {
		for _, rate := range []float64{0.5, 8.5, 12.5, 30} {
			for _, months := range []int{1, 12, 60, 240, 360} {
				a := Amortize(principal, rate, months)

				assert.InDelta(t, a.EMI*float64(months)-principal, a.TotalInterest, 1e-6)
				assert.InDelta(t, principal+a.TotalInterest, a.TotalAmount, 1e-6)
				assert.Greater(t, a.TotalInterest, 0.0)
				assert.False(t, math.IsNaN(a.EMI) || math.IsInf(a.EMI, 0))
			}
		}
	}
}

func TestEMI_TinyRateConvergesToStraightLine(t *testing.T) {
	assert.InDelta(t, 1200.0/12, EMI(1200, 1e-12, 12), 1e-6)
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 10258.27, RoundTo2(10258.26566))
	assert.Equal(t, 100.0, RoundTo2(99.999))
}
