package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"

	"github.com/gin-gonic/gin"

	"starconnect-back/internal/api/http/handler"
	"starconnect-back/internal/model"
	"starconnect-back/pkg/geoip"
)

// Visitor derives an anonymous visitor hash from ip+user-agent and resolves
// the client country. Raw IPs never reach the storage layer.
func Visitor(geo geoip.GeoIP) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		userAgent := c.GetHeader(handler.UserAgentHeader)

		sum := sha256.Sum256([]byte(ip + "|" + userAgent))
		c.Set(model.VisitorHashKey, hex.EncodeToString(sum[:]))

		if geo != nil {
			info := geo.Lookup(net.ParseIP(ip))
			c.Set(model.ClientCountryKey, info.CC)
		}

		c.Next()
	}
}
