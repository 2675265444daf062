package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAppStoreClient points a client at a fake endpoint with the
// retry knobs turned down so failure tests finish quickly.
func newTestAppStoreClient(url string) *AppStoreClient {
	c := NewAppStoreClient(url)
	c.Tries = 1
	c.Backoff = 0
	return c
}

func TestFindFallsBackUntilHit(t *testing.T) {
	var countries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		country := r.URL.Query().Get("country")
		countries = append(countries, country)
		if country == "PL" {
			w.Write([]byte(`{"resultCount":1,"results":[{"trackName":"Chess"}]}`))
			return
		}
		w.Write([]byte(`{"resultCount":0,"results":[]}`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)
	req := NewRequest(Options{CountryCode: "FR", FallbackCountryCodes: []string{"DE", "PL", "GB"}})

	rec, err := c.Find(context.Background(), "12341234", req)
	require.NoError(t, err)
	assert.Equal(t, "Chess", rec["trackName"])

	// the walk stops at the first hit, GB is never asked
	assert.Equal(t, []string{"FR", "DE", "PL"}, countries)
}

func TestFindExhaustsCountries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultCount":0,"results":[]}`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)
	req := NewRequest(Options{CountryCode: "FR", FallbackCountryCodes: []string{"DE"}})

	_, err := c.Find(context.Background(), "12341234", req)

	var noResults *NoResultsError
	require.ErrorAs(t, err, &noResults)
	assert.Equal(t, []string{"FR", "DE"}, noResults.Countries)
	assert.Equal(t, "could not find app in any country (FR, DE)", err.Error())
}

func TestFindStopsOnMalformedResponse(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)
	req := NewRequest(Options{CountryCode: "FR", FallbackCountryCodes: []string{"DE", "PL"}})

	_, err := c.Find(context.Background(), "12341234", req)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, calls, "a malformed response must not advance the fallback walk")
}

func TestFindMissingResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// resultCount present but no results array
		w.Write([]byte(`{"resultCount":1}`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)

	_, err := c.Find(context.Background(), "12341234", NewRequest(Options{}))

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestFindInvalidCountry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errorMessage":"Invalid value(s) for key(s): [country]"}`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)
	req := NewRequest(Options{CountryCode: "XX", FallbackCountryCodes: []string{"US"}})

	_, err := c.Find(context.Background(), "12341234", req)

	var invalid *InvalidCountryError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "XX", invalid.Country)
}

func TestFindBackendErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errorMessage":"internal service error"}`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)

	_, err := c.Find(context.Background(), "12341234", NewRequest(Options{}))

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Contains(t, err.Error(), "internal service error")
}

func TestFindUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)

	_, err := c.Find(context.Background(), "12341234", NewRequest(Options{}))

	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

type failingTransport struct {
	calls int
}

func (t *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("connection refused")
}

func TestFindRetriesTransportFailures(t *testing.T) {
	ft := &failingTransport{}

	c := NewAppStoreClient("http://lookup.invalid")
	c.Client = &http.Client{Transport: ft}
	c.Tries = 3
	c.Backoff = 0

	_, err := c.Find(context.Background(), "12341234", NewRequest(Options{}))

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.NotNil(t, reqErr.Unwrap())
	assert.Equal(t, 3, ft.calls, "each transaction gets the full attempt budget")
}

func TestFindForwardsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.Write([]byte(`{"resultCount":1,"results":[{}]}`))
	}))
	defer srv.Close()

	c := newTestAppStoreClient(srv.URL)
	c.Username = "agent"
	c.Password = "hunter2"

	_, err := c.Find(context.Background(), "12341234", NewRequest(Options{}))
	require.NoError(t, err)
	assert.Equal(t, "agent", gotUser)
	assert.Equal(t, "hunter2", gotPass)
}

func TestLookupURLOnlyCarriesAllowedParams(t *testing.T) {
	c := NewAppStoreClient("http://lookup.example")

	assert.Equal(t, "http://lookup.example?country=US&id=123&lang=en", c.lookupURL("123", "US", "en"))
	assert.Equal(t, "http://lookup.example?country=US&id=123", c.lookupURL("123", "US", ""))
	assert.Equal(t, "http://lookup.example?id=123", c.lookupURL("123", "", ""))
}
