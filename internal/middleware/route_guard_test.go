package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ganspro/internal/model"
	"ganspro/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		role         string
		wantAllow    bool
		wantRedirect string
	}{
		{"admin allowed on dashboard", "/dashboard", model.RoleAdmin, true, ""},
		{"admin allowed on dashboard subpath", "/dashboard/students/3", model.RoleAdmin, true, ""},
		{"student allowed on portal", "/studentportal", model.RoleStudent, true, ""},
		{"student allowed on portal subpath", "/studentportal/fees", model.RoleStudent, true, ""},
		{"student on dashboard cross-redirects", "/dashboard", model.RoleStudent, false, "/studentportal"},
		{"admin on portal cross-redirects", "/studentportal/profile", model.RoleAdmin, false, "/dashboard"},
		{"no token on dashboard goes home", "/dashboard", "", false, HomePath},
		{"no token on portal goes home", "/studentportal", "", false, HomePath},
		{"unknown role goes home", "/dashboard", "moderator", false, HomePath},
		{"public path always allowed", "/about", "", true, ""},
		{"prefix must match a full segment", "/dashboardx", model.RoleStudent, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.path, tt.role)
			assert.Equal(t, tt.wantAllow, d.Allow)
			assert.Equal(t, tt.wantRedirect, d.Redirect)
		})
	}
}

// A redirect issued by the guard must land on a path the same role is
// allowed to enter, so following it can never bounce back.
func TestEvaluate_NoRedirectLoops(t *testing.T) {
	roles := []string{"", model.RoleAdmin, model.RoleStudent, "moderator"}
	paths := []string{"/dashboard", "/dashboard/students", "/studentportal", "/studentportal/fees"}

	for _, role := range roles {
		for _, path := range paths {
			d := Evaluate(path, role)
			if d.Allow {
				continue
			}
			followUp := Evaluate(d.Redirect, role)
			assert.True(t, followUp.Allow,
				"redirect from %q for role %q landed on %q which redirects again to %q",
				path, role, d.Redirect, followUp.Redirect)
		}
	}
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, "/dashboard", HomeFor(model.RoleAdmin))
	assert.Equal(t, "/studentportal", HomeFor(model.RoleStudent))
	assert.Equal(t, HomePath, HomeFor(""))
	assert.Equal(t, HomePath, HomeFor("moderator"))
}

func guardedRouter(jwtUtil *utils.JWTUtil) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	guard := RouteGuard(jwtUtil)
	router.GET("/dashboard", guard, func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })
	router.GET("/studentportal", guard, func(c *gin.Context) { c.String(http.StatusOK, "portal") })
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
	return router
}

func doGuarded(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouteGuard_CookieFlows(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 1)
	router := guardedRouter(jwtUtil)

	adminToken, _ := jwtUtil.GenerateToken(model.Identity{ID: 1, Email: "admin@x.com", Role: model.RoleAdmin})
	studentToken, _ := jwtUtil.GenerateToken(model.Identity{ID: 2, Email: "s@x.com", Role: model.RoleStudent})

	t.Run("admin passes through dashboard", func(t *testing.T) {
		w := doGuarded(router, "/dashboard", adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin redirected from portal to dashboard", func(t *testing.T) {
		w := doGuarded(router, "/studentportal", adminToken)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("student passes through portal", func(t *testing.T) {
		w := doGuarded(router, "/studentportal", studentToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("student redirected from dashboard to portal", func(t *testing.T) {
		w := doGuarded(router, "/dashboard", studentToken)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/studentportal", w.Header().Get("Location"))
	})

	t.Run("no token redirects home exactly once", func(t *testing.T) {
		w := doGuarded(router, "/dashboard", "")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, HomePath, w.Header().Get("Location"))

		// Following the redirect lands on the public entry point without a
		// further redirect back to the protected prefix.
		home := doGuarded(router, w.Header().Get("Location"), "")
		assert.Equal(t, http.StatusOK, home.Code)
	})

	t.Run("garbage token treated as no token", func(t *testing.T) {
		w := doGuarded(router, "/studentportal", "not.a.token")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, HomePath, w.Header().Get("Location"))
	})

	t.Run("token signed with another secret treated as no token", func(t *testing.T) {
		otherUtil := utils.NewJWTUtil("other-secret", 1)
		forged, _ := otherUtil.GenerateToken(model.Identity{ID: 3, Role: model.RoleAdmin})
		w := doGuarded(router, "/dashboard", forged)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, HomePath, w.Header().Get("Location"))
	})
}
