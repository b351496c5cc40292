package route

import "github.com/gin-gonic/gin"

type AnalyticsHandler interface {
	Track(c *gin.Context)
	UserStats(c *gin.Context)
	ContentStats(c *gin.Context)
	Report(c *gin.Context)
	ExportCSV(c *gin.Context)
}

func RegisterAnalytics(g *gin.RouterGroup, h AnalyticsHandler, jwtAuthMiddleware, visitorMiddleware gin.HandlerFunc) {
	g.POST("/track", visitorMiddleware, h.Track)

	protected := g.Group("", jwtAuthMiddleware)
	protected.GET("/stats", h.UserStats)
	protected.GET("/content/:content_id", h.ContentStats)
	protected.GET("/report", h.Report)
	protected.GET("/export", h.ExportCSV)
}
