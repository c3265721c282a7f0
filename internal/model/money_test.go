package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain decimal", input: "4.50", want: "4.5"},
		{name: "negative", input: "-1234.56", want: "-1234.56"},
		{name: "us thousands", input: "1,234.56", want: "1234.56"},
		{name: "brazilian cents", input: "4,50", want: "4.5"},
		{name: "brazilian thousands", input: "1.234,56", want: "1234.56"},
		{name: "brazilian negative", input: "-1.234,56", want: "-1234.56"},
		{name: "currency marker", input: "R$ 1.234,56", want: "1234.56"},
		{name: "dollar marker", input: "$4.50", want: "4.5"},
		{name: "integer", input: "100", want: "100"},
		{name: "whitespace", input: "  23,40 ", want: "23.4"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"4.5", "4,50"},
		{"-4.5", "-4,50"},
		{"1234.56", "1.234,56"},
		{"-1234567.89", "-1.234.567,89"},
		{"0", "0,00"},
		{"100", "100,00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"1.234,56", "-987,65", "0,01"} {
		d, err := ParseMoney(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatBRL(d))
	}
}
