package route

import "github.com/gin-gonic/gin"

// RegisterPublic wires the anonymous reading surface: creator pages and
// published content by slug.
func RegisterPublic(g *gin.RouterGroup, profileHdl ProfileHandler, contentHdl ContentHandler) {
	g.GET("/:username", profileHdl.GetPublicProfile)
	g.GET("/:username/content/:slug", contentHdl.GetPublic)
}
