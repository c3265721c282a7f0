package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases and collapses",
			in:   "Whole  Foods   Market",
			want: "whole foods market",
		},
		{
			name: "punctuation folds to spaces",
			in:   "IFOOD *IFOOD",
			want: "ifood ifood",
		},
		{
			name: "card suffix digits dropped",
			in:   "STARBUCKS #1234",
			want: "starbucks",
		},
		{
			name: "processor noise dropped",
			in:   "POS PURCHASE STARBUCKS",
			want: "starbucks",
		},
		{
			name: "installment counters dropped",
			in:   "LOJA TURBO PARC 01/03",
			want: "loja turbo",
		},
		{
			name: "mixed alphanumerics kept",
			in:   "AMZN MKTPLACE *2AB3",
			want: "amzn mktplace 2ab3",
		},
		{
			name: "only noise leaves empty key",
			in:   "POS 992811",
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestNormalizeKeySameMerchantSameKey(t *testing.T) {
	variants := []string{
		"NETFLIX.COM",
		"netflix com",
		"Netflix.Com 0199",
	}
	for _, v := range variants {
		assert.Equal(t, "netflix com", NormalizeKey(v))
	}
}
