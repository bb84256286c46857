package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
	"github.com/oksasatya/go-pos-backoffice/pkg/response"
)

const (
	CtxIdentityKey  = "identity"
	CtxAccountIDKey = "accountID"
)

// Authorizer resolves a session token to the identity behind it.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*application.Identity, error)
}

// bearerToken prefers the Authorization header and falls back to the session cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.SessionCookie); err == nil {
		return tok
	}
	return ""
}

// Auth requires a live session. On success the identity is stored under
// CtxIdentityKey and the account id under CtxAccountIDKey.
func Auth(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing session token", nil)
			return
		}
		id, err := a.Authorize(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrUnauthorized) {
				response.Abort(c, http.StatusUnauthorized, "invalid or expired session", nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "session lookup failed", nil)
			return
		}
		c.Set(CtxIdentityKey, id)
		c.Set(CtxAccountIDKey, id.ID)
		c.Next()
	}
}

// CurrentIdentity returns the identity set by Auth.
func CurrentIdentity(c *gin.Context) (*application.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*application.Identity)
	return id, ok && id != nil
}

// RequireRole lets the request through only for the listed roles. It must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "insufficient role", nil)
	}
}
