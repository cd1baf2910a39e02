package region

import "strings"

// Parse maps a caller-provided region token to its descriptor. Accepted
// tokens are the site keys plus common aliases, case-insensitive.
func Parse(s string) (Info, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cn", "china":
		return CN, true
	case "us":
		return US, true
	case "hk":
		return HK, true
	case "jp":
		return JP, true
	case "sg":
		return SG, true
	}
	return Info{}, false
}

// FromCountry maps an ISO country code to the nearest served region.
func FromCountry(code string) (Info, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "CN":
		return CN, true
	case "US":
		return US, true
	case "HK":
		return HK, true
	case "JP":
		return JP, true
	case "SG":
		return SG, true
	}
	return Info{}, false
}
