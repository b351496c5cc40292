package route

import (
	"crypto/ecdsa"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"starconnect-back/internal/api/http/handler"
	"starconnect-back/internal/api/http/middleware"
	"starconnect-back/internal/config"
	"starconnect-back/pkg/geoip"
)

const maxMultipartMemory = 1 << 30

func SetupRouter(
	log *zap.Logger,
	cfg *config.Config,
	publicKey *ecdsa.PublicKey,
	geo geoip.GeoIP,
	healthHdl HealthHandler,
	authHdl AuthHandler,
	profileHdl ProfileHandler,
	contentHdl ContentHandler,
	commentHdl CommentHandler,
	mediaHdl MediaHandler,
	newsletterHdl NewsletterHandler,
	analyticsHdl AnalyticsHandler,
	socialHdl SocialHandler,
	crisisHdl CrisisHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	router := gin.Default()
	router.MaxMultipartMemory = maxMultipartMemory

	// middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestTimeout(cfg.HTTPServer.Timeout.Request))
	router.Use(middleware.CORS(cfg.CORS))

	jwtAuthMiddleware := middleware.JWTAuth(publicKey)
	visitorMiddleware := middleware.Visitor(geo)

	router.HandleMethodNotAllowed = true
	router.NoMethod(handler.NoMethod)
	router.NoRoute(handler.NoRoute)

	basePath := router.Group(cfg.HTTPServer.BasePath)

	docsPath := basePath.Group("/docs")
	RegisterDock(docsPath)

	healthPath := basePath.Group("/health")
	RegisterHealth(healthPath, healthHdl)

	authPath := basePath.Group("/auth")
	RegisterAuth(authPath, authHdl)

	profilePath := basePath.Group("/profile")
	RegisterProfile(profilePath, profileHdl, jwtAuthMiddleware)

	contentPath := basePath.Group("/content")
	RegisterContent(contentPath, contentHdl, jwtAuthMiddleware)

	commentsPath := basePath.Group("/comments")
	RegisterComments(commentsPath, commentHdl, jwtAuthMiddleware)

	mediaPath := basePath.Group("/media")
	RegisterMedia(mediaPath, mediaHdl, jwtAuthMiddleware)

	newsletterPath := basePath.Group("/newsletter")
	RegisterNewsletter(newsletterPath, newsletterHdl, jwtAuthMiddleware)

	analyticsPath := basePath.Group("/analytics")
	RegisterAnalytics(analyticsPath, analyticsHdl, jwtAuthMiddleware, visitorMiddleware)

	socialPath := basePath.Group("/social")
	RegisterSocial(socialPath, socialHdl, jwtAuthMiddleware)

	crisisPath := basePath.Group("/crisis")
	RegisterCrisis(crisisPath, crisisHdl, jwtAuthMiddleware)

	publicPath := basePath.Group("/public")
	RegisterPublic(publicPath, profileHdl, contentHdl)

	return router
}
