package lookup

import (
	"strconv"
	"time"

	"storesearch/pkg/models"
)

// ParseAppStore maps one iTunes lookup record onto the canonical
// field set. Fields the record does not carry come back as their
// zero values, never left out and never stale.
func ParseAppStore(rec Record) models.BasicInfo {
	info := models.BasicInfo{
		Title:            rec.str("trackName"),
		Description:      rec.str("description"),
		Publisher:        rec.str("sellerName"),
		Developer:        rec.str("artistName"),
		Version:          rec.str("version"),
		AgeRating:        rec.str("contentAdvisoryRating"),
		Rating:           rec.numText("averageUserRating"),
		Categories:       rec.strs("genres"),
		Platforms:        rec.strs("features"),
		SupportedDevices: rec.strs("supportedDevices"),
		TotalRatings:     rec.numText("userRatingCount"),
		Installs:         "", // not offered by this provider
		DeveloperWebsite: rec.str("sellerUrl"),
	}

	if info.AgeRating == "" {
		info.AgeRating = rec.str("trackContentRating")
	}

	if bytes, ok := rec.byteCount("fileSizeBytes"); ok {
		info.Memory = humanSize(bytes)
	}

	if s := rec.str("releaseDate"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			info.ReleaseDate = &t
		}
	}

	info.IconURL = findImageURL([]string{
		rec.str("artworkUrl512"),
		rec.str("artworkUrl100"),
		rec.str("artworkUrl60"),
	})

	// Phone and tablet screenshots, deduplicated in order.
	screenshots := rec.strs("screenshotUrls")
	for _, u := range rec.strs("ipadScreenshotUrls") {
		screenshots = appendIfMissing(screenshots, u)
	}
	info.ScreenshotURLs = screenshots

	return info
}

func (r Record) str(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Record) strs(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// numText renders a numeric field as text, passing strings through.
// JSON numbers decode as float64; whole values drop the fraction.
func (r Record) numText(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// byteCount reads a size field the API serves either as a number or
// as a decimal string.
func (r Record) byteCount(key string) (int64, bool) {
	switch v := r[key].(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int64(v), true
	}
	return 0, false
}
