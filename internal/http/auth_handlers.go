package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sujalbistaa/secretos/internal/auth"
)

// SignIn handles POST /api/auth/signin. Failures answer in plain text.
func (e *Env) SignIn(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.String(http.StatusBadRequest, "Email and password are required")
		return
	}

	sess, err := e.Auth.SignInWithPassword(c.Request.Context(), email, password)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			c.String(authErr.Status, authErr.Message)
			return
		}
		e.Log.Error("sign in", zap.Error(err))
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	setSessionCookies(c, sess.AccessToken, sess.RefreshToken)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// SignOut handles POST /api/auth/signout.
func (e *Env) SignOut(c *gin.Context) {
	if refresh, err := c.Cookie(refreshCookie); err == nil {
		if err := e.Auth.SignOut(c.Request.Context(), refresh); err != nil {
			e.Log.Warn("revoke refresh token", zap.Error(err))
		}
	}
	clearSessionCookies(c)
	c.Redirect(http.StatusFound, "/signin")
}

// SignInPage handles GET /signin.
func (e *Env) SignInPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signin.html", nil)
}
