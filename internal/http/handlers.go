package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sujalbistaa/secretos/internal/admin"
	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/auth"
	"github.com/sujalbistaa/secretos/internal/ratelimit"
	"github.com/sujalbistaa/secretos/internal/service"
	"github.com/sujalbistaa/secretos/internal/ws"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// Settings are the request policies handlers enforce.
type Settings struct {
	UploadLimit        int
	UploadWindow       time.Duration
	MaxUploadBytes     int64
	AllowedDepartments []string
}

// Env carries the dependencies of every handler.
type Env struct {
	Posts    *service.PostService
	Images   *service.ImageService
	Auth     *auth.Service
	Tables   *admin.Registry
	Limiter  *ratelimit.Limiter
	Events   ws.Publisher
	Log      *zap.Logger
	Settings Settings
}

type retrieveImagesInput struct {
	Secret service.FlexID `json:"secret"`
}

// CreatePost handles POST /api/create-post.
func (e *Env) CreatePost(c *gin.Context) {
	var input service.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		e.fail(c, fmt.Errorf("%w: Invalid request body", apperr.ErrBadRequest))
		return
	}

	secret, err := e.Posts.Create(c.Request.Context(), input)
	if err != nil {
		e.fail(c, err)
		return
	}

	e.publish(ws.EventNewPost, secret)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": secret})
}

// RetrieveImages handles POST /api/retrieve-images.
func (e *Env) RetrieveImages(c *gin.Context) {
	var input retrieveImagesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		e.fail(c, fmt.Errorf("%w: Invalid request body", apperr.ErrBadRequest))
		return
	}
	secretID, err := service.ParseID(string(input.Secret))
	if err != nil {
		e.fail(c, fmt.Errorf("%w: Invalid secret ID", apperr.ErrBadRequest))
		return
	}

	urls, err := e.Images.URLs(c.Request.Context(), secretID)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": urls})
}

// UploadImage handles POST /api/upload-image. The rate limit is checked
// before the body is read.
func (e *Env) UploadImage(c *gin.Context) {
	key := c.ClientIP()
	if key == "" {
		key = "unknown"
	}
	limit := e.Settings.UploadLimit
	rl := e.Limiter.Check(key, limit, e.Settings.UploadWindow)

	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(rl.ResetTime.UnixMilli(), 10))

	if !rl.Allowed {
		seconds := int64(rl.Wait / time.Second)
		c.Header("Retry-After", strconv.FormatInt(seconds, 10))
		e.fail(c, fmt.Errorf("%w: Rate limit exceeded. Try again in %d seconds.", apperr.ErrRateLimited, seconds))
		return
	}

	maxBytes := e.Settings.MaxUploadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			e.fail(c, imageTooLarge(maxBytes))
			return
		}
		e.fail(c, fmt.Errorf("%w: No image file provided", apperr.ErrBadRequest))
		return
	}
	secretID, err := service.ParseID(c.PostForm("secret_id"))
	if err != nil {
		e.fail(c, fmt.Errorf("%w: Invalid secret ID", apperr.ErrBadRequest))
		return
	}
	if file.Size > maxBytes {
		e.fail(c, imageTooLarge(maxBytes))
		return
	}

	f, err := file.Open()
	if err != nil {
		e.fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		e.fail(c, fmt.Errorf("read upload: %w", err))
		return
	}

	if _, err := e.Images.Upload(c.Request.Context(), secretID, data, file.Header.Get("Content-Type")); err != nil {
		e.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rateLimit": gin.H{
			"remaining": rl.Remaining,
			"resetAt":   rl.ResetTime.UTC().Format(isoMillis),
		},
	})
}

func imageTooLarge(maxBytes int64) error {
	return fmt.Errorf("%w: Image exceeds the %d byte limit", apperr.ErrBadRequest, maxBytes)
}

// ListSecrets handles GET /api/secrets, the public feed of approved secrets.
func (e *Env) ListSecrets(c *gin.Context) {
	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			e.fail(c, fmt.Errorf("%w: Invalid limit", apperr.ErrBadRequest))
			return
		}
		limit = min(n, maxFeedLimit)
	}

	secrets, err := e.Posts.ListPublished(c.Request.Context(), limit)
	if err != nil {
		e.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": secrets})
}

func (e *Env) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail writes the {success:false, error} body. Errors outside the apperr
// taxonomy are logged and reported as "Server error".
func (e *Env) fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		e.Log.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"success": false, "error": apperr.Message(err)})
}

func (e *Env) publish(eventType string, data any) {
	if e.Events == nil {
		return
	}
	e.Events.Publish(eventType, data)
}
