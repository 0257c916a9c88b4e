package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/secretos/internal/ws"
)

const (
	signInRPS   = 1.0 / 3.0
	signInBurst = 5
)

// SetupRoutes configures all application routes and middleware. hub may be
// nil, in which case /ws is not served.
func SetupRoutes(ctx context.Context, router *gin.Engine, env *Env, hub *ws.Hub, corsOrigin string) {
	router.Use(RequestLogger(env.Log))
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	if corsOrigin == "" {
		corsOrigin = "*"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: corsOrigin != "*",
	}))

	router.SetHTMLTemplate(Templates())

	signInLimiter := NewIPRateLimiter(rate.Limit(signInRPS), signInBurst)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := signInLimiter.Cleanup(); n > 0 {
					env.Log.Debug("sign-in limiter cleanup", zap.Int("removed", n))
				}
			}
		}
	}()

	router.GET("/healthz", env.Healthz)

	api := router.Group("/api")
	{
		api.POST("/create-post", env.CreatePost)
		api.POST("/retrieve-images", env.RetrieveImages)
		api.POST("/upload-image", env.UploadImage)
		api.GET("/secrets", env.ListSecrets)
		api.GET("/schools/options", env.SchoolOptions)

		api.POST("/auth/signin", RateLimitMiddleware(signInLimiter), env.SignIn)
		api.POST("/auth/signout", env.SignOut)

		adminAPI := api.Group("/admin", env.AdminAuthMiddleware(true))
		adminAPI.GET("/secrets", env.AdminListSecrets)
		adminAPI.PATCH("/secrets/:id", env.AdminToggleApproval)
		adminAPI.DELETE("/secrets/:id", env.AdminDeleteSecret)
	}

	pages := router.Group("/admin", env.AdminAuthMiddleware(false))
	{
		pages.GET("/dashboard", env.Dashboard)
		pages.POST("/secrets/:id/approval", env.ToggleApprovalForm)
		pages.POST("/secrets/:id/delete", env.DeleteSecretForm)
	}

	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			ws.ServeWs(hub, c.Writer, c.Request)
		})
	}

	router.GET("/signin", env.SignInPage)
	router.GET("/", env.SubmitPage)
	router.POST("/submit", env.Submit)
}
