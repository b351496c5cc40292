package route

import "github.com/gin-gonic/gin"

type ProfileHandler interface {
	GetMe(c *gin.Context)
	UpdateProfile(c *gin.Context)
	GetPublicProfile(c *gin.Context)
}

func RegisterProfile(g *gin.RouterGroup, h ProfileHandler, jwtAuthMiddleware gin.HandlerFunc) {
	protected := g.Group("", jwtAuthMiddleware)
	protected.GET("/me", h.GetMe)
	protected.PATCH("/me", h.UpdateProfile)
}
