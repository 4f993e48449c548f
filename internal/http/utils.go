package http

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// getClientIP resolves the originating client address, preferring the
// first public address in proxy headers over the socket peer.
func getClientIP(c *fiber.Ctx) string {
	if ip := firstPublicIP(strings.Split(c.Get("X-Forwarded-For"), ",")); ip != "" {
		return ip
	}

	for _, header := range []string{"X-Real-IP", "CF-Connecting-IP", "True-Client-IP"} {
		if value := c.Get(header); value != "" {
			if ip := firstPublicIP([]string{value}); ip != "" {
				return ip
			}
		}
	}

	return c.IP()
}

func firstPublicIP(candidates []string) string {
	for _, raw := range candidates {
		clean := strings.TrimSpace(raw)
		if clean == "" {
			continue
		}
		if host, _, err := net.SplitHostPort(clean); err == nil {
			clean = host
		}
		ip := net.ParseIP(clean)
		if ip == nil || isPrivateIP(ip) {
			continue
		}
		return clean
	}
	return ""
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
