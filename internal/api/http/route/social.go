package route

import "github.com/gin-gonic/gin"

type SocialHandler interface {
	TwitterAuthorizeURL(c *gin.Context)
	ConnectTwitter(c *gin.Context)
	GetAccounts(c *gin.Context)
	SetAccountActive(c *gin.Context)
	DisconnectAccount(c *gin.Context)
	Publish(c *gin.Context)
	GetQueue(c *gin.Context)
	CancelQueued(c *gin.Context)
	Feed(c *gin.Context)
	EngagementStats(c *gin.Context)
	SyncEngagement(c *gin.Context)
}

func RegisterSocial(g *gin.RouterGroup, h SocialHandler, jwtAuthMiddleware gin.HandlerFunc) {
	protected := g.Group("", jwtAuthMiddleware)
	protected.GET("/twitter/authorize", h.TwitterAuthorizeURL)
	protected.POST("/twitter/connect", h.ConnectTwitter)
	protected.GET("/accounts", h.GetAccounts)
	protected.PATCH("/accounts/:account_id/active", h.SetAccountActive)
	protected.DELETE("/accounts/:account_id", h.DisconnectAccount)
	protected.POST("/publish", h.Publish)
	protected.GET("/queue", h.GetQueue)
	protected.DELETE("/queue/:item_id", h.CancelQueued)
	protected.GET("/feed", h.Feed)
	protected.GET("/engagement", h.EngagementStats)
	protected.POST("/engagement/sync", h.SyncEngagement)
}
