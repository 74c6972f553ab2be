package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"ganspro/internal/middleware"
	"ganspro/internal/model"
	"ganspro/internal/repository"
	"ganspro/internal/service"
	"ganspro/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studentTestEnv struct {
	router        *gin.Engine
	studentCookie *http.Cookie
	adminCookie   *http.Cookie
	studentID     int
}

// newStudentTestEnv assembles the full stack over in-memory stores and logs
// in one student and one admin.
func newStudentTestEnv(t *testing.T) *studentTestEnv {
	t.Helper()
	t.Setenv("INITIAL_ADMIN_EMAIL", "admin@x.com")
	gin.SetMode(gin.TestMode)

	jwtUtil := utils.NewJWTUtil("test-secret", 1)
	userRepo := repository.NewMemoryUserRepository()
	studentRepo := repository.NewMemoryStudentRepository()
	authService := service.NewAuthService(userRepo, studentRepo, jwtUtil)
	studentService := service.NewStudentService(studentRepo)

	router := gin.New()
	NewAuthHandler(authService, 1).RegisterAuthRoutes(router, middleware.JWTAuthMiddleware(jwtUtil))
	NewStudentHandler(studentService).RegisterStudentRoutes(router, middleware.RouteGuard(jwtUtil))

	env := &studentTestEnv{router: router}

	signup := func(email, name string) int {
		w := doJSON(router, http.MethodPost, "/auth/signup",
			fmt.Sprintf(`{"email":%q,"password":"longenough1","name":%q}`, email, name))
		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			UserID int `json:"userId"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.UserID
	}
	login := func(email string) *http.Cookie {
		w := doJSON(router, http.MethodPost, "/auth/login",
			fmt.Sprintf(`{"email":%q,"password":"longenough1"}`, email))
		require.Equal(t, http.StatusOK, w.Code)
		return sessionCookie(t, w)
	}

	signup("admin@x.com", "Admin")
	env.studentID = signup("student@x.com", "Student")
	env.adminCookie = login("admin@x.com")
	env.studentCookie = login("student@x.com")
	return env
}

func TestStudentHandler_PortalSummary(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodGet, "/studentportal", "", env.studentCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		Profile struct {
			StudentNo string `json:"student_no"`
		} `json:"profile"`
		TotalBilled int64 `json:"total_billed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Contains(t, summary.Profile.StudentNo, "STU-")
	assert.Zero(t, summary.TotalBilled)
}

func TestStudentHandler_UpdateMyProfile(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodPut, "/studentportal/profile",
		`{"phone":"+254712345678","course":"Bachelor of Education"}`, env.studentCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	var profile model.StudentProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "+254712345678", profile.Phone)
	assert.Equal(t, "Bachelor of Education", profile.Course)
}

func TestStudentHandler_Documents(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodPost, "/studentportal/documents",
		`{"name":"Semester 1 Results","type":"results","url":"/documents/results.pdf"}`, env.studentCookie)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(env.router, http.MethodPost, "/studentportal/documents",
		`{"name":"Bad","type":"passport","url":"/documents/x.pdf"}`, env.studentCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(env.router, http.MethodGet, "/studentportal/documents", "", env.studentCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	var docs []model.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.NotEmpty(t, docs[0].ID)

	// Admin can pull the same documents through the dashboard
	w = doJSON(env.router, http.MethodGet,
		fmt.Sprintf("/dashboard/students/%d/documents", env.studentID), "", env.adminCookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStudentHandler_FeeLifecycle(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodPost,
		fmt.Sprintf("/dashboard/students/%d/fees", env.studentID),
		`{"semester":"Spring 2026","amount":85000,"due_date":"2026-10-01T00:00:00Z"}`, env.adminCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var fee model.Fee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fee))
	assert.Equal(t, model.FeeStatusPending, fee.Status)

	w = doJSON(env.router, http.MethodPut,
		"/dashboard/fees/"+fee.ID+"/payment", `{"amount":85000}`, env.adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fee))
	assert.Equal(t, model.FeeStatusPaid, fee.Status)

	// The student sees the settled fee in the portal
	w = doJSON(env.router, http.MethodGet, "/studentportal/fees", "", env.studentCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	var fees []model.Fee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fees))
	require.Len(t, fees, 1)
	assert.Equal(t, model.FeeStatusPaid, fees[0].Status)
}

func TestStudentHandler_DashboardStats(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodGet, "/dashboard", "", env.adminCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.StudentCount)
}

func TestStudentHandler_ListStudents(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodGet, "/dashboard/students", "", env.adminCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	var students []model.StudentProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	require.Len(t, students, 1)
	assert.Equal(t, env.studentID, students[0].UserID)
}

func TestStudentHandler_GetStudent_NotFound(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodGet, "/dashboard/students/999", "", env.adminCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(env.router, http.MethodGet, "/dashboard/students/abc", "", env.adminCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandler_GuardRedirectsWrongRole(t *testing.T) {
	env := newStudentTestEnv(t)

	w := doJSON(env.router, http.MethodGet, "/dashboard", "", env.studentCookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/studentportal", w.Header().Get("Location"))

	w = doJSON(env.router, http.MethodGet, "/studentportal", "", env.adminCookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = doJSON(env.router, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
