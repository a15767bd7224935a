package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cents    int64
		currency string
		want     int64
	}{
		{"positive cents", 1234, USD, 1234},
		{"zero", 0, USD, 0},
		{"large amount", 999999999, USD, 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.cents, tt.currency)
			assert.Equal(t, tt.want, m.Amount())
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{"precise decimal", "123.45", 12345},
		{"rounds half up", "99.999", 10000},
		{"whole number", "500", 50000},
		{"sub-cent noise rounds away", "719.9999999", 72000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			m := NewFromDecimal(d, USD)
			assert.Equal(t, tt.want, m.Amount())
		})
	}
}

func TestNewFromString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		european bool
		want     int64
	}{
		{"us format", "1,234.56", false, 123456},
		{"czech format", "1.646,70", true, 164670},
		{"dollar sign stripped", "$720.00", false, 72000},
		{"plain", "480", false, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromString(tt.input, USD, tt.european)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Amount())
		})
	}

	t.Run("invalid amount", func(t *testing.T) {
		_, err := NewFromString("not a number", USD, false)
		assert.Error(t, err)
	})
}

func TestPercentageDecimal(t *testing.T) {
	// 60% of $1200.00 is $720.00, the worked steel share.
	total := New(120000, USD)
	steel := total.PercentageDecimal(decimal.NewFromInt(60))
	assert.Equal(t, int64(72000), steel.Amount())

	aluminum := total.PercentageDecimal(decimal.NewFromInt(40))
	assert.Equal(t, int64(48000), aluminum.Amount())

	// Per-row rounding: 33.33% of $10.00 rounds to $3.33.
	third := New(1000, USD).PercentageDecimal(decimal.NewFromFloat(33.33))
	assert.Equal(t, int64(333), third.Amount())
}

func TestShareOf(t *testing.T) {
	part := New(72000, USD)
	total := New(241330, USD)

	share := part.ShareOf(total)
	assert.True(t, share.GreaterThan(decimal.Zero))
	assert.True(t, share.LessThan(decimal.NewFromInt(1)))

	// Share of a zero total is zero, never a division error.
	assert.True(t, part.ShareOf(Zero(USD)).IsZero())
	assert.True(t, part.ShareOf(nil).IsZero())
}

func TestAddAndSum(t *testing.T) {
	a := New(72000, USD)
	b := New(48000, USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), sum.Amount())

	total := Sum([]*Money{a, b, nil, Zero(USD)})
	assert.Equal(t, int64(120000), total.Amount())
}

func TestNilSafety(t *testing.T) {
	var m *Money
	assert.Equal(t, int64(0), m.Amount())
	assert.True(t, m.IsZero())
	assert.False(t, m.IsPositive())
	assert.Equal(t, "0.00", m.String())
	assert.True(t, m.ToDecimal().IsZero())
}

func TestString(t *testing.T) {
	assert.Equal(t, "720.00", New(72000, USD).String())
	assert.Equal(t, "0.05", New(5, USD).String())
	assert.Equal(t, "1234.56", New(123456, USD).String())
}

func TestCompare(t *testing.T) {
	a := New(100, USD)
	b := New(200, USD)
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(New(100, USD)))
	assert.True(t, a.Equals(New(100, USD)))
}
