package models

import "time"

// Platform ids accepted by the lookup service.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Platforms lists every supported platform id.
var Platforms = []string{PlatformIOS, PlatformAndroid}

// BasicInfo is the normalized, internal form of one application's
// metadata. Every store backend is mapped into this structure first,
// so callers see the same field set regardless of where the data came
// from. A field the backend does not offer stays at its zero value.
type BasicInfo struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Publisher        string     `json:"publisher"`
	Developer        string     `json:"developer"`
	Version          string     `json:"version"`
	Memory           string     `json:"memory"` // human readable size, e.g. "23.5 MB"
	ReleaseDate      *time.Time `json:"release_date"`
	MinOSVersion     string     `json:"min_os_version"`
	AgeRating        string     `json:"age_rating"`
	Rating           string     `json:"rating"` // decimal as text, e.g. "4.5"
	Categories       []string   `json:"categories"`
	IconURL          string     `json:"icon_url"`
	ScreenshotURLs   []string   `json:"screenshot_urls"`
	Platforms        []string   `json:"platforms"`
	SupportedDevices []string   `json:"supported_devices"`
	TotalRatings     string     `json:"total_ratings"`
	Installs         string     `json:"installs"` // provider-native range, e.g. "10,000 - 20,000"
	DeveloperWebsite string     `json:"developer_website"`
}

// App represents one application identified by a store-specific id
// and a platform tag. Its metadata fields are empty until a lookup
// populates them.
type App struct {
	ID       string   `json:"id"`
	Platform string   `json:"platform_id"`
	Errors   []string `json:"-"`
	BasicInfo
}

// NewApp creates an App for the given store id and platform tag.
func NewApp(id, platform string) *App {
	return &App{ID: id, Platform: platform}
}

// Validate recomputes the validation errors and stores them on the
// app. Rules run in a fixed order so the error list is deterministic.
func (a *App) Validate() []string {
	errs := []string{}

	if a.ID == "" {
		errs = append(errs, "missing app id")
	}
	if !knownPlatform(a.Platform) {
		errs = append(errs, "unknown platform_id")
	}

	a.Errors = errs
	return errs
}

// Valid reports whether the app passes validation.
func (a *App) Valid() bool {
	return len(a.Validate()) == 0
}

func knownPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
