package lookup

import "strings"

// Defaults applied when the caller leaves a preference empty.
const (
	DefaultCountryCode  = "US"
	DefaultLanguageCode = "en"
)

// Options carries the caller's lookup preferences. Zero values fall
// back to the defaults above.
type Options struct {
	LanguageCode         string
	CountryCode          string
	FallbackCountryCodes []string
}

// Request is the resolved form of Options: a language code and the
// ordered list of country stores to try.
type Request struct {
	LanguageCode string
	CountryCodes []string
}

// NewRequest resolves defaults and builds the country list: the
// primary country first, then every fallback entry in the order
// given. Blank fallback entries are dropped and the primary is not
// re-tried if it reappears in the fallback list; repeats within the
// fallback list itself are kept as given.
func NewRequest(opts Options) Request {
	lang := strings.TrimSpace(opts.LanguageCode)
	if lang == "" {
		lang = DefaultLanguageCode
	}

	primary := strings.TrimSpace(opts.CountryCode)
	if primary == "" {
		primary = DefaultCountryCode
	}

	countries := []string{primary}
	for _, c := range opts.FallbackCountryCodes {
		c = strings.TrimSpace(c)
		if c == "" || c == primary {
			continue
		}
		countries = append(countries, c)
	}

	return Request{LanguageCode: lang, CountryCodes: countries}
}
