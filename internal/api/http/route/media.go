package route

import "github.com/gin-gonic/gin"

type MediaHandler interface {
	Upload(c *gin.Context)
	List(c *gin.Context)
	Delete(c *gin.Context)
}

func RegisterMedia(g *gin.RouterGroup, h MediaHandler, jwtAuthMiddleware gin.HandlerFunc) {
	protected := g.Group("", jwtAuthMiddleware)
	protected.POST("", h.Upload)
	protected.GET("", h.List)
	protected.DELETE("/:media_id", h.Delete)
}
