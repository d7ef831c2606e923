package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
)

// GinMiddleware guards an HTTP route with the requirement the policy table
// holds for method, so a route exposing a gRPC operation is closed or opened
// together with it.
func (g *Guard) GinMiddleware(method string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := parseBearer(c.GetHeader("Authorization"))
		claims, code, msg := g.check(method, raw)
		switch code {
		case codes.OK:
		case codes.PermissionDenied:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
			return
		default:
			c.Header("WWW-Authenticate", `Bearer realm="cart"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims != nil {
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), claimsKey{}, claims))
		}
		c.Next()
	}
}
