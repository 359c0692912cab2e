package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
)

// AuthRequired parses the bearer token into an actor and attaches it to
// the request context. Workflow handlers read it back with actorFrom.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor, err := s.authSvc.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(authctx.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Admin always passes.
func (s *Server) RequireRole(roles ...authctx.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := authctx.ActorFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !actor.Is(roles...) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) (authctx.Actor, bool) {
	return authctx.ActorFromContext(c.Request.Context())
}
