package route

import "github.com/gin-gonic/gin"

type CrisisHandler interface {
	SaveTemplate(c *gin.Context)
	Activate(c *gin.Context)
	Deactivate(c *gin.Context)
	Get(c *gin.Context)
}

func RegisterCrisis(g *gin.RouterGroup, h CrisisHandler, jwtAuthMiddleware gin.HandlerFunc) {
	protected := g.Group("", jwtAuthMiddleware)
	protected.PUT("", h.SaveTemplate)
	protected.GET("", h.Get)
	protected.POST("/activate", h.Activate)
	protected.POST("/deactivate", h.Deactivate)
}
