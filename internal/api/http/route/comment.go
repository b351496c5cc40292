package route

import "github.com/gin-gonic/gin"

type CommentHandler interface {
	Submit(c *gin.Context)
	Thread(c *gin.Context)
	ListForModeration(c *gin.Context)
	Moderate(c *gin.Context)
	Delete(c *gin.Context)
	Stats(c *gin.Context)
}

func RegisterComments(g *gin.RouterGroup, h CommentHandler, jwtAuthMiddleware gin.HandlerFunc) {
	g.POST("", h.Submit)
	g.GET("/thread/:content_id", h.Thread)

	protected := g.Group("", jwtAuthMiddleware)
	protected.GET("", h.ListForModeration)
	protected.GET("/stats", h.Stats)
	protected.PATCH("/:comment_id", h.Moderate)
	protected.DELETE("/:comment_id", h.Delete)
}
