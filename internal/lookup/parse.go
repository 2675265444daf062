package lookup

import (
	"fmt"
	"math"
	"strings"
)

// sizeUnits is the unit table for humanSize, smallest first.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// humanSize renders a raw byte count the way store listings do: one
// decimal and the closest unit. Values beyond the unit table clamp to
// the largest unit instead of overflowing it.
func humanSize(bytes int64) string {
	exponent := 0
	value := float64(bytes)

	if bytes >= 1024 {
		exponent = int(math.Log(float64(bytes)) / math.Log(1024))
		if exponent > len(sizeUnits)-1 {
			exponent = len(sizeUnits) - 1
		}
		value = float64(bytes) / math.Pow(1024, float64(exponent))
	}

	return fmt.Sprintf("%.1f %s", value, sizeUnits[exponent])
}

// findImageURL returns the first non-empty candidate URL, upgrading
// scheme-relative URLs to plain http.
func findImageURL(candidates []string) string {
	for _, u := range candidates {
		if u == "" {
			continue
		}
		if strings.HasPrefix(u, "//") {
			return "http:" + u
		}
		return u
	}
	return ""
}

// appendIfMissing grows the slice only when the value is not already
// present, preserving order.
func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}
