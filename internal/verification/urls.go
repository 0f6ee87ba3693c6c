package verification

import "strings"

// googleDomains are the URL fragments accepted as evidence of a Google
// Business or Maps listing.
var googleDomains = []string{
	"google.com/maps",
	"maps.google.com",
	"goo.gl/maps",
	"business.google.com",
	"g.page",
}

// IsValidGoogleURL reports whether url points at a known Google Business or
// Maps domain. This is a syntactic check only; reachability is probed
// separately.
func IsValidGoogleURL(url string) bool {
	if url == "" {
		return false
	}

	lower := strings.ToLower(url)
	for _, domain := range googleDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}

	return false
}
