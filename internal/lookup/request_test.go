package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		wantLang      string
		wantCountries []string
	}{
		{
			"all defaults",
			Options{},
			"en", []string{"US"},
		},
		{
			"explicit values",
			Options{LanguageCode: "fi", CountryCode: "FI"},
			"fi", []string{"FI"},
		},
		{
			"fallbacks keep order",
			Options{CountryCode: "FR", FallbackCountryCodes: []string{"DE", "PL", "GB"}},
			"en", []string{"FR", "DE", "PL", "GB"},
		},
		{
			"primary not retried from fallbacks",
			Options{CountryCode: "US", FallbackCountryCodes: []string{"DE", "US", "GB"}},
			"en", []string{"US", "DE", "GB"},
		},
		{
			"blank fallback entries dropped",
			Options{FallbackCountryCodes: []string{"", "  ", "DE"}},
			"en", []string{"US", "DE"},
		},
		{
			"repeats within fallbacks kept",
			Options{CountryCode: "FR", FallbackCountryCodes: []string{"DE", "DE"}},
			"en", []string{"FR", "DE", "DE"},
		},
		{
			"whitespace trimmed",
			Options{LanguageCode: " fi ", CountryCode: " FI ", FallbackCountryCodes: []string{" SE "}},
			"fi", []string{"FI", "SE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tt.opts)
			assert.Equal(t, tt.wantLang, req.LanguageCode)
			assert.Equal(t, tt.wantCountries, req.CountryCodes)
		})
	}
}
