package tracking

import (
	"net/url"
	"strings"

	"sitewatch/internal/pkg/geoip"
	"sitewatch/internal/pkg/useragent"
)

// pathBase resolves scheme-less page URLs so path extraction still works.
var pathBase = &url.URL{Scheme: "http", Host: "localhost"}

// DerivePagePath extracts the path component from a page URL. Relative and
// scheme-less URLs resolve against a throwaway base; unparseable input
// falls back to "/".
func DerivePagePath(pageURL string) string {
	if pageURL == "" {
		return "/"
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "/"
	}
	if !parsed.IsAbs() {
		parsed = pathBase.ResolveReference(parsed)
	}

	path := parsed.Path
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// classifyUserAgent returns the device, browser, and OS buckets for a raw
// User-Agent string, with defaults applied for unrecognized input.
func classifyUserAgent(rawUA string) (device, browser, osName string) {
	ua := useragent.Parse(rawUA)
	return ua.Device, ua.Browser, ua.OS
}

// lookupGeo resolves the client IP to a country code and city when the
// GeoLite2 database is available.
func lookupGeo(ipAddress string) (country, city string) {
	return geoip.Lookup(ipAddress)
}

// sessionDescriptors picks the effective device, browser, and OS for a
// session beacon: explicit beacon fields win, then classification of the
// request User-Agent. Blank results mean the beacon carried no signal.
func sessionDescriptors(input *SessionInput) (device, browser, osName string) {
	device = strings.ToLower(strings.TrimSpace(input.DeviceType))
	browser = strings.TrimSpace(input.Browser)
	osName = strings.TrimSpace(input.OS)

	if input.UserAgent != "" && (device == "" || browser == "" || osName == "") {
		ua := useragent.Parse(input.UserAgent)
		if device == "" {
			device = ua.Device
		}
		if browser == "" {
			browser = ua.Browser
		}
		if osName == "" {
			osName = ua.OS
		}
	}
	return device, browser, osName
}

// sessionGeo picks the effective country and city for a session beacon,
// falling back to a GeoIP lookup of the client address.
func sessionGeo(input *SessionInput) (country, city string) {
	country = strings.TrimSpace(input.Country)
	city = strings.TrimSpace(input.City)

	if country == "" || city == "" {
		geoCountry, geoCity := lookupGeo(input.IPAddress)
		if country == "" {
			country = geoCountry
		}
		if city == "" {
			city = geoCity
		}
	}
	return country, city
}

func defaultIfEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
