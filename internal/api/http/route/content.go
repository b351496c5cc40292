package route

import "github.com/gin-gonic/gin"

type ContentHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Publish(c *gin.Context)
	Delete(c *gin.Context)
	Search(c *gin.Context)
	GetPublic(c *gin.Context)
}

func RegisterContent(g *gin.RouterGroup, h ContentHandler, jwtAuthMiddleware gin.HandlerFunc) {
	protected := g.Group("", jwtAuthMiddleware)
	protected.POST("", h.Create)
	protected.GET("", h.List)
	protected.GET("/search", h.Search)
	protected.GET("/:content_id", h.Get)
	protected.PATCH("/:content_id", h.Update)
	protected.POST("/:content_id/publish", h.Publish)
	protected.DELETE("/:content_id", h.Delete)
}
