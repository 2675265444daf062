package lookup

import (
	"html"
	"reflect"
	"regexp"
	"strings"
	"time"

	"storesearch/pkg/models"
)

// playDateLayout matches the human dates on the details page,
// e.g. "June 4, 2013".
const playDateLayout = "January 2, 2006"

var (
	brTagRe          = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	pOpenRe          = regexp.MustCompile(`(?i)<\s*p\s*>`)
	hiddenStyleRe    = regexp.MustCompile(`(?is)(display\s*:\s*none.*?>).*`)
	anyTagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	allowedTagRe     = regexp.MustCompile(`(?i)^</?(?:b|i|em|strong|u)\s*/?>$`)
	nonDigitRe       = regexp.MustCompile(`\D`)
	leadingVersionRe = regexp.MustCompile(`^\d+(?:\.\d+)*`)
)

// ParsePlayStore maps one scraped Play Store page onto the canonical
// field set. Memory and version may be the page's literal "Varies
// with device" placeholder and are passed through untouched.
func ParsePlayStore(app *PlayApp) models.BasicInfo {
	if playAppEmpty(app) {
		return models.BasicInfo{}
	}

	info := models.BasicInfo{
		Title:            app.Title,
		Description:      cleanDescription(app.Description),
		Developer:        strings.TrimSpace(app.Developer),
		Version:          app.CurrentVersion,
		Memory:           app.Size,
		MinOSVersion:     leadingVersionRe.FindString(app.RequiresAndroid),
		AgeRating:        app.ContentRating,
		Rating:           app.Rating,
		IconURL:          findImageURL([]string{app.BannerIconURL, app.BannerImageURL}),
		ScreenshotURLs:   app.ScreenshotURLs,
		Platforms:        []string{"Android"},
		SupportedDevices: nil, // not offered by this provider
		TotalRatings:     nonDigitRe.ReplaceAllString(app.Votes, ""),
		Installs:         app.Installs,
		DeveloperWebsite: app.WebsiteURL,
	}
	info.Publisher = info.Developer

	if app.Category != "" {
		info.Categories = []string{app.Category}
	}
	if t, err := time.Parse(playDateLayout, app.Updated); err == nil {
		info.ReleaseDate = &t
	}

	return info
}

// cleanDescription turns the page's description HTML into readable
// text: line breaks become newlines, paragraphs get a preceding
// newline, anything after a hidden-style marker is dropped, and the
// rest is reduced to a small inline-formatting allow-list before
// entity decoding.
func cleanDescription(s string) string {
	s = brTagRe.ReplaceAllString(s, "\n")
	s = pOpenRe.ReplaceAllString(s, "\n$0")
	s = hiddenStyleRe.ReplaceAllString(s, "$1")
	s = anyTagRe.ReplaceAllStringFunc(s, func(tag string) string {
		if allowedTagRe.MatchString(tag) {
			return tag
		}
		return ""
	})
	return strings.TrimSpace(html.UnescapeString(s))
}

// playAppEmpty reports whether the page yielded no usable fields, so
// the parser can answer with an entirely empty record instead of a
// partially fixed one.
func playAppEmpty(app *PlayApp) bool {
	if app == nil {
		return true
	}
	clone := *app
	clone.ScreenshotURLs = nil
	return reflect.DeepEqual(clone, PlayApp{}) && len(app.ScreenshotURLs) == 0
}
