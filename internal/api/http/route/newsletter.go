package route

import "github.com/gin-gonic/gin"

type NewsletterHandler interface {
	Subscribe(c *gin.Context)
	Unsubscribe(c *gin.Context)
	ListSubscribers(c *gin.Context)
	RemoveSubscriber(c *gin.Context)
	Stats(c *gin.Context)
	Send(c *gin.Context)
}

func RegisterNewsletter(g *gin.RouterGroup, h NewsletterHandler, jwtAuthMiddleware gin.HandlerFunc) {
	g.POST("/subscribe", h.Subscribe)
	g.POST("/unsubscribe", h.Unsubscribe)

	protected := g.Group("", jwtAuthMiddleware)
	protected.GET("/subscribers", h.ListSubscribers)
	protected.DELETE("/subscribers/:subscriber_id", h.RemoveSubscriber)
	protected.GET("/stats", h.Stats)
	protected.POST("/send", h.Send)
}
