package schedulefa

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyConvert(t *testing.T) {
	usd := M(decimal.RequireFromString("435.31"), "USD")
	rate := decimal.RequireFromString("75.61")

	inr := usd.Convert(rate, "INR")
	assert.Equal(t, "INR", inr.Currency())
	assert.True(t, inr.Amount().Equal(decimal.RequireFromString("32913.7891")), "got %s", inr.Amount())
}

func TestMoneyMulKeepsPrecision(t *testing.T) {
	m := M(decimal.RequireFromString("0.1"), "USD").Mul(Q(3))
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("0.3")), "decimal arithmetic must be exact, got %s", m.Amount())
}

func TestMoneyRounded(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"65827.5782", 65828},
		{"65827.4999", 65827},
		{"65827.5", 65828},
		{"0", 0},
		{"-1.5", -2},
	}
	for _, tt := range tests {
		m := M(decimal.RequireFromString(tt.value), "INR")
		assert.Equal(t, tt.want, m.Rounded(), "Rounded(%s)", tt.value)
	}
}

func TestMoneyAddCurrencyMismatch(t *testing.T) {
	a := M(1, "USD")
	b := M(2, "EUR")
	assert.Panics(t, func() { a.Add(b) })

	// the empty currency is weak and takes the other side's
	c := M(2, "").Add(a)
	assert.Equal(t, "USD", c.Currency())
	assert.True(t, c.Amount().Equal(decimal.NewFromInt(3)))
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "$435.31", M(decimal.RequireFromString("435.31"), "USD").String())
}
