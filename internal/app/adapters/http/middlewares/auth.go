package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminUser = "admin"

type Middlewares struct{}

func New() *Middlewares {
	return &Middlewares{}
}

// Auth accepts either "Bearer <token>" or basic auth as admin:<token>. An empty token disables the check.
func (m *Middlewares) Auth(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			if equal(strings.TrimPrefix(auth, "Bearer "), expected) {
				c.Next()
				return
			}
		} else if user, pass, ok := c.Request.BasicAuth(); ok && user == adminUser && equal(pass, expected) {
			c.Next()
			return
		}

		c.Header("WWW-Authenticate", `Basic realm="Authorization Required"`)
		c.AbortWithStatus(http.StatusUnauthorized)
	}
}

func equal(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
