package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultLookupURL is the public iTunes lookup endpoint.
const DefaultLookupURL = "https://itunes.apple.com/lookup"

// invalidCountryMessage is the sentinel the lookup API answers with
// when a country code is not recognized.
const invalidCountryMessage = "Invalid value(s) for key(s): [country]"

// Record is one provider-native application entry from the lookup
// API. It is only ever consumed by ParseAppStore.
type Record map[string]any

// AppStoreClient looks an application up on the iTunes search API,
// walking an ordered list of country stores until one has it. Each
// per-country transaction retries transport failures up to Tries
// attempts, with a fixed per-attempt timeout and backoff.
//
// The zero retry knobs are not usable; construct with NewAppStoreClient.
type AppStoreClient struct {
	Client    *http.Client
	LookupURL string
	Username  string // optional basic auth forwarded to the endpoint
	Password  string
	Tries     int
	Timeout   time.Duration // per-attempt budget
	Backoff   time.Duration // wait between failed attempts
}

// NewAppStoreClient creates a client for the given lookup endpoint,
// or the public one when lookupURL is empty.
func NewAppStoreClient(lookupURL string) *AppStoreClient {
	if lookupURL == "" {
		lookupURL = DefaultLookupURL
	}
	return &AppStoreClient{
		Client:    &http.Client{},
		LookupURL: lookupURL,
		Tries:     3,
		Timeout:   5 * time.Second,
		Backoff:   time.Second,
	}
}

// Find walks the request's country list in order and returns the
// first raw record found. A structurally valid zero-result response
// advances to the next country; any other failure stops the walk and
// is returned unchanged. When every country comes back empty the
// result is a NoResultsError naming all of them.
func (c *AppStoreClient) Find(ctx context.Context, id string, req Request) (Record, error) {
	for _, country := range req.CountryCodes {
		rec, err := c.lookup(ctx, id, country, req.LanguageCode)
		if err == nil {
			return rec, nil
		}

		var noResults *NoResultsError
		if errors.As(err, &noResults) {
			continue
		}
		return nil, err
	}

	return nil, &NoResultsError{Countries: req.CountryCodes}
}

// lookup runs one lookup transaction against a single country store.
func (c *AppStoreClient) lookup(ctx context.Context, id, country, lang string) (Record, error) {
	body, err := c.getWithRetries(ctx, c.lookupURL(id, country, lang))
	if err != nil {
		return nil, &RequestError{Message: "lookup request failed", Err: err}
	}

	var parsed struct {
		ErrorMessage string   `json:"errorMessage"`
		ResultCount  *int     `json:"resultCount"`
		Results      []Record `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &RequestError{Message: "could not decode lookup response", Err: err}
	}

	// Validation order matters: an explicit error message wins over a
	// shape check, and only the zero-result outcome drives fallback.
	switch {
	case parsed.ErrorMessage == invalidCountryMessage:
		return nil, &InvalidCountryError{Country: country}
	case parsed.ErrorMessage != "":
		return nil, &RequestError{Message: fmt.Sprintf("request failed with error message: %q", parsed.ErrorMessage)}
	case parsed.ResultCount == nil || parsed.Results == nil:
		return nil, &MalformedResponseError{}
	case *parsed.ResultCount == 0:
		return nil, &NoResultsError{Message: "response is valid, but the application was not found"}
	}

	return parsed.Results[0], nil
}

// lookupURL builds the endpoint URL from the non-empty values among
// the allowed id/country/lang parameters. Nothing else is forwarded.
func (c *AppStoreClient) lookupURL(id, country, lang string) string {
	q := url.Values{}
	if id != "" {
		q.Set("id", id)
	}
	if country != "" {
		q.Set("country", country)
	}
	if lang != "" {
		q.Set("lang", lang)
	}
	return c.LookupURL + "?" + q.Encode()
}

// getWithRetries fetches the URL, retrying transport failures with a
// fixed backoff until the attempt budget is spent. Only transport
// failures retry; whatever body arrives is returned for validation.
func (c *AppStoreClient) getWithRetries(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.Tries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.Backoff)
		}

		body, err := c.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *AppStoreClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.Username != "" || c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
