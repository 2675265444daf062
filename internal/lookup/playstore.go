package lookup

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultPlayStoreURL is the public Play Store details page.
const DefaultPlayStoreURL = "https://play.google.com/store/apps/details"

// PlayApp is the raw field set extracted from one Play Store
// application page, pre-normalization. It is only ever consumed by
// ParsePlayStore.
type PlayApp struct {
	Title           string
	Description     string // inner HTML, cleaned up by the parser
	Developer       string
	CurrentVersion  string
	Size            string
	Updated         string
	RequiresAndroid string
	ContentRating   string
	Rating          string
	Category        string
	BannerIconURL   string
	BannerImageURL  string
	ScreenshotURLs  []string
	Votes           string
	Installs        string
	WebsiteURL      string
}

// PlayStoreClient fetches application detail pages from the Play
// Store and extracts the raw fields the parser consumes. The Play
// Store has no lookup API, so any transport, status or extraction
// failure collapses into a not-found outcome.
type PlayStoreClient struct {
	Client  *http.Client
	BaseURL string
}

// NewPlayStoreClient creates a client for the given details page URL,
// or the public one when baseURL is empty.
func NewPlayStoreClient(baseURL string) *PlayStoreClient {
	if baseURL == "" {
		baseURL = DefaultPlayStoreURL
	}
	return &PlayStoreClient{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: baseURL,
	}
}

// Find fetches the details page for the given package name in the
// given language and extracts its fields.
func (c *PlayStoreClient) Find(ctx context.Context, id, lang string) (*PlayApp, error) {
	if lang == "" {
		lang = DefaultLanguageCode
	}

	q := url.Values{}
	q.Set("id", id)
	q.Set("hl", lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &NoResultsError{Message: "could not find app in the play store"}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &NoResultsError{Message: "could not find app in the play store"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NoResultsError{Message: "could not find app in the play store"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NoResultsError{Message: "could not find app in the play store"}
	}

	app := extractPlayApp(string(body))
	if app.Title == "" {
		return nil, &NoResultsError{Message: "could not find app in the play store"}
	}
	return app, nil
}

// Pre-compiled patterns for the page's itemprop markup.
var (
	propContentRe = regexp.MustCompile(`(?is)<[^>]*\bitemprop="([^"]+)"[^>]*\bcontent="([^"]*)"[^>]*>`)
	propTextRe    = regexp.MustCompile(`(?is)<(?:span|div|h1|h2|a)\b[^>]*\bitemprop="([^"]+)"[^>]*>(.*?)</`)
	propImageRe   = regexp.MustCompile(`(?is)<img\b[^>]*\bitemprop="([^"]+)"[^>]*\bsrc="([^"]*)"[^>]*>`)
	descriptionRe = regexp.MustCompile(`(?is)<div\b[^>]*\bitemprop="description"[^>]*>(.*?)</div>`)
	innerTagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// extractPlayApp pulls the raw fields out of the page markup. First
// occurrence of each itemprop wins; meta content beats element text.
func extractPlayApp(page string) *PlayApp {
	content := map[string]string{}
	for _, m := range propContentRe.FindAllStringSubmatch(page, -1) {
		if _, ok := content[m[1]]; !ok {
			content[m[1]] = html.UnescapeString(m[2])
		}
	}

	text := map[string]string{}
	for _, m := range propTextRe.FindAllStringSubmatch(page, -1) {
		if _, ok := text[m[1]]; !ok {
			plain := innerTagRe.ReplaceAllString(m[2], "")
			text[m[1]] = strings.TrimSpace(html.UnescapeString(plain))
		}
	}

	images := map[string][]string{}
	for _, m := range propImageRe.FindAllStringSubmatch(page, -1) {
		images[m[1]] = append(images[m[1]], m[2])
	}

	pick := func(prop string) string {
		if v := content[prop]; v != "" {
			return v
		}
		return text[prop]
	}

	app := &PlayApp{
		Title:           pick("name"),
		Developer:       pick("author"),
		CurrentVersion:  pick("softwareVersion"),
		Size:            pick("fileSize"),
		Updated:         pick("datePublished"),
		RequiresAndroid: pick("operatingSystems"),
		ContentRating:   pick("contentRating"),
		Rating:          pick("ratingValue"),
		Votes:           pick("ratingCount"),
		Category:        pick("genre"),
		Installs:        pick("numDownloads"),
		WebsiteURL:      pick("url"),
		BannerImageURL:  content["image"],
		ScreenshotURLs:  images["screenshot"],
	}

	if icons := images["image"]; len(icons) > 0 {
		app.BannerIconURL = icons[0]
	}
	if m := descriptionRe.FindStringSubmatch(page); m != nil {
		app.Description = strings.TrimSpace(m[1])
	}

	return app
}
