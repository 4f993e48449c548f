package useragent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sitewatch/internal/pkg/useragent"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		device  string
		browser string
		os      string
		bot     bool
	}{
		{
			name:    "desktop chrome on windows",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			device:  "desktop",
			browser: "Chrome",
			os:      "Windows",
		},
		{
			name:    "iphone safari",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			device:  "mobile",
			browser: "Safari",
			os:      "iOS",
		},
		{
			name:    "android chrome phone",
			ua:      "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			device:  "mobile",
			browser: "Chrome",
			os:      "Android",
		},
		{
			name:    "android tablet without mobile token",
			ua:      "Mozilla/5.0 (Linux; Android 13; SM-X710) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			device:  "tablet",
			browser: "Chrome",
			os:      "Android",
		},
		{
			name:    "ipad",
			ua:      "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			device:  "tablet",
			browser: "Safari",
			os:      "iOS",
		},
		{
			name:    "edge wins over chrome token",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			device:  "desktop",
			browser: "Edge",
			os:      "Windows",
		},
		{
			name:    "firefox on macos",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
			device:  "desktop",
			browser: "Firefox",
			os:      "macOS",
		},
		{
			name:    "googlebot flagged",
			ua:      "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			device:  "desktop",
			browser: "unknown",
			os:      "unknown",
			bot:     true,
		},
		{
			name:    "empty falls back to defaults",
			ua:      "",
			device:  "desktop",
			browser: "unknown",
			os:      "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := useragent.Parse(tt.ua)
			assert.Equal(t, tt.device, result.Device)
			assert.Equal(t, tt.browser, result.Browser)
			assert.Equal(t, tt.os, result.OS)
			assert.Equal(t, tt.bot, result.Bot)
		})
	}
}
