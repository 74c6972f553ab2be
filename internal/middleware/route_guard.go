package middleware

import (
	"net/http"
	"strings"

	"ganspro/internal/model"
	"ganspro/internal/utils"

	"github.com/gin-gonic/gin"
)

// HomePath is the public entry point unauthenticated users are sent to.
const HomePath = "/"

// Area maps a protected path prefix to the role required to enter it.
type Area struct {
	Prefix string
	Role   string
}

// protectedAreas is the single authoritative prefix-to-role table. Every
// routing decision goes through Evaluate over this table; adding an area is
// a one-line change.
var protectedAreas = []Area{
	{Prefix: "/dashboard", Role: model.RoleAdmin},
	{Prefix: "/studentportal", Role: model.RoleStudent},
}

// Decision is the outcome of evaluating a request against the area table.
type Decision struct {
	Allow    bool
	Redirect string // target path when Allow is false
}

// AreaFor returns the protected area covering path, if any.
func AreaFor(path string) (Area, bool) {
	for _, area := range protectedAreas {
		if path == area.Prefix || strings.HasPrefix(path, area.Prefix+"/") {
			return area, true
		}
	}
	return Area{}, false
}

// HomeFor returns the home area for a role, or the public entry point for
// roles the table does not know.
func HomeFor(role string) string {
	for _, area := range protectedAreas {
		if area.Role == role {
			return area.Prefix
		}
	}
	return HomePath
}

// Evaluate decides what to do with a request for path carrying role. An
// empty role means no token or a token that failed verification; both are
// treated identically. Redirect targets are always either the public entry
// point or the role's own area, so a redirect can never bounce back.
func Evaluate(path, role string) Decision {
	area, protected := AreaFor(path)
	if !protected {
		return Decision{Allow: true}
	}
	if role == area.Role {
		return Decision{Allow: true}
	}
	if role != "" {
		if home := HomeFor(role); home != HomePath {
			// Known role in the wrong area: send them to their own area
			// rather than a dead-end denial page.
			return Decision{Redirect: home}
		}
	}
	return Decision{Redirect: HomePath}
}

// RouteGuard gates the protected page prefixes by role. Token decode is
// purely local; a store outage cannot lock out authenticated users.
func RouteGuard(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ""
		if tokenString := extractToken(c); tokenString != "" {
			claims, err := jwtUtil.ValidateToken(tokenString)
			if err == nil {
				role = claims.Role
				c.Set(AuthIdentityKey, claims.Identity())
			}
			// Any verify error falls through with an empty role, exactly
			// like a missing token.
		}

		decision := Evaluate(c.Request.URL.Path, role)
		if !decision.Allow {
			c.Redirect(http.StatusSeeOther, decision.Redirect)
			c.Abort()
			return
		}

		c.Next()
	}
}
