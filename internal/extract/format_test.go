package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		ok   bool
		want string
	}{
		{"thousands", 1234, true, "$1.23K"},
		{"millions", 2500000, true, "$2.50M"},
		{"billions", 3.456e9, true, "$3.46B"},
		{"units", 999, true, "$999.00"},
		{"zero", 0, true, "NA"},
		{"absent", 0, false, "NA"},
		{"negative", -1234, true, "-$1.23K"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Money(tc.in, tc.ok))
		})
	}
}

func TestPricePreservesSubCentPrecision(t *testing.T) {
	assert.Equal(t, "$0.0000012300", Price("0.00000123", true))
	assert.Equal(t, "$0.0000001500", Price("1.5e-7", true))
	assert.Equal(t, "$142.5000000000", Price("142.5", true))
	assert.Equal(t, "NA", Price("", false))
	assert.Equal(t, "NA", Price("abc", true))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.35%", Percent(12.345678, true))
	assert.Equal(t, "-3.10%", Percent(-3.1, true))
	assert.Equal(t, "0.00%", Percent(0, true))
	assert.Equal(t, "NA", Percent(0, false))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1.00B", Count(1e9, true))
	assert.Equal(t, "999.99M", Count(999.99e6, true))
	assert.Equal(t, "12,345", Count(12345.4, true))
	assert.Equal(t, "0", Count(0, true))
	assert.Equal(t, "NA", Count(0, false))
}

func TestDate(t *testing.T) {
	tests := map[string]string{
		"2021-11-02T06:23:39.071Z":  "2021-11-02",
		"2024-01-15T10:00:00+02:00": "2024-01-15",
		"2024-01-15T10:00:00":       "2024-01-15",
		"2024-01-15":                "2024-01-15",
		"yesterday":                 "NA",
		"":                          "NA",
	}
	for in, want := range tests {
		assert.Equal(t, want, Date(in), in)
	}
}

func TestInteger(t *testing.T) {
	assert.Equal(t, "42", Integer(42, true))
	assert.Equal(t, "NA", Integer(0, false))
}
