package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

var defaultIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP stores the client address under "real_ip". The listed headers are
// tried in order (left-most entry for list headers) before c.ClientIP().
// With no headers given, Cloudflare, X-Real-IP and X-Forwarded-For are used.
func RealIP(headers ...string) gin.HandlerFunc {
	if len(headers) == 0 {
		headers = defaultIPHeaders
	}
	return func(c *gin.Context) {
		c.Set("real_ip", resolveIP(c, headers))
		c.Next()
	}
}

func resolveIP(c *gin.Context, headers []string) string {
	for _, h := range headers {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		first, _, _ := strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
