package http

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/secretos/internal/admin"
	"github.com/sujalbistaa/secretos/internal/auth"
)

const (
	accessCookie  = "sb-access-token"
	refreshCookie = "sb-refresh-token"

	adminSessionKey = "adminSession"
)

// RequestLogger logs one line per request with its request ID.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.Request.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if s, ok := admin.FromContext(c.Request.Context()); ok {
			fields = append(fields, zap.Uint("admin_id", s.UserID))
		}

		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	}
}

// SecurityHeadersMiddleware adds basic security headers. Pages are
// server-rendered without scripts.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline'")
		c.Next()
	}
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		rps:      r,
		burst:    b,
	}
}

func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = limiter
	}
	return limiter
}

// Cleanup forgets every visitor whose bucket has refilled.
func (rl *IPRateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for ip, l := range rl.visitors {
		if l.Tokens() >= float64(rl.burst) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// RateLimitMiddleware throttles by client IP and answers in plain text,
// like the sign-in endpoint it guards.
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.String(http.StatusTooManyRequests, "Too many requests. Please wait.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminAuthMiddleware resolves the admin session from the sign-in cookies.
// An expired access token is exchanged with the refresh token and both
// cookies are rewritten. Without a session, pages redirect to /signin and
// the JSON API answers 401.
func (e *Env) AdminAuthMiddleware(api bool) gin.HandlerFunc {
	deny := func(c *gin.Context) {
		if api {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Redirect(http.StatusFound, "/signin")
		c.Abort()
	}

	return func(c *gin.Context) {
		access, _ := c.Cookie(accessCookie)
		refresh, _ := c.Cookie(refreshCookie)

		var session *admin.Session
		if claims, err := e.Auth.Verify(access); err == nil {
			id, err := claims.UserID()
			if err != nil {
				deny(c)
				return
			}
			session = &admin.Session{UserID: id, Email: claims.Email, AccessToken: access, RefreshToken: refresh}
		} else {
			issued, err := e.Auth.Refresh(c.Request.Context(), refresh)
			if err != nil {
				var authErr *auth.Error
				if !errors.As(err, &authErr) {
					e.Log.Error("refresh admin session", zap.Error(err))
				}
				deny(c)
				return
			}
			setSessionCookies(c, issued.AccessToken, issued.RefreshToken)
			session = &admin.Session{
				UserID:       issued.User.ID,
				Email:        issued.User.Email,
				AccessToken:  issued.AccessToken,
				RefreshToken: issued.RefreshToken,
			}
		}

		c.Set(adminSessionKey, session)
		c.Request = c.Request.WithContext(admin.NewContext(c.Request.Context(), session))
		c.Next()
	}
}

// setSessionCookies writes both tokens scoped to the whole site with no
// other attributes.
func setSessionCookies(c *gin.Context, access, refresh string) {
	http.SetCookie(c.Writer, &http.Cookie{Name: accessCookie, Value: access, Path: "/"})
	http.SetCookie(c.Writer, &http.Cookie{Name: refreshCookie, Value: refresh, Path: "/"})
}

func clearSessionCookies(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{Name: accessCookie, Path: "/", MaxAge: -1})
	http.SetCookie(c.Writer, &http.Cookie{Name: refreshCookie, Path: "/", MaxAge: -1})
}

func sessionFrom(c *gin.Context) *admin.Session {
	s, _ := admin.FromContext(c.Request.Context())
	return s
}
