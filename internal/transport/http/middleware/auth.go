package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"userhub/internal/pkg/jwtutil"
	"userhub/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

// unauthorizedMsg is the single message for missing, malformed, invalid, and
// expired credentials. The causes must stay indistinguishable to the caller.
const unauthorizedMsg = "authentication required"

// maxBodyPeek bounds how much of a request body the legacy token extraction
// will read.
const maxBodyPeek = 1 << 20

// Auth extracts a bearer token from the Authorization header, then the auth
// cookie, then a legacy `token` field in a JSON body, verifies it, and puts
// the resolved user id into the gin context. It never loads the user record.
func Auth(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, unauthorizedMsg)
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, unauthorizedMsg)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the identity the gate attached to the request.
func UserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := raw.(string)
	return id, ok && id != ""
}

func extractToken(c *gin.Context, cookieName string) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(header, prefix)); token != "" {
			return token
		}
	}

	if cookie, err := c.Cookie(cookieName); err == nil {
		if token := strings.TrimSpace(cookie); token != "" {
			return token
		}
	}

	return tokenFromBody(c)
}

// tokenFromBody supports transitional clients that still post the token as a
// body field. The body is restored so downstream binding sees it intact.
func tokenFromBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	if ct := c.ContentType(); ct != "" && ct != "application/json" {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyPeek))
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Token)
}
