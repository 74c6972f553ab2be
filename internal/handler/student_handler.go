package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"ganspro/internal/middleware"
	"ganspro/internal/model"
	"ganspro/internal/service"

	"github.com/gin-gonic/gin"
)

// StudentHandler handles student portal and admin dashboard requests
type StudentHandler struct {
	service service.StudentService
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(s service.StudentService) *StudentHandler {
	return &StudentHandler{service: s}
}

// Helper to get the authenticated identity from context
func getAuthIdentity(c *gin.Context) (model.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return model.Identity{}, errors.New("identity not found in context")
	}
	return identity, nil
}

func (h *StudentHandler) writeServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound), errors.Is(err, service.ErrFeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("Error %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// --- Student portal ---

func (h *StudentHandler) GetSummary(c *gin.Context) {
	identity, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), identity.ID)
	if err != nil {
		h.writeServiceError(c, err, "load portal summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *StudentHandler) GetMyProfile(c *gin.Context) {
	identity, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		h.writeServiceError(c, err, "retrieve profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) UpdateMyProfile(c *gin.Context) {
	identity, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), identity.ID, req)
	if err != nil {
		h.writeServiceError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) GetMyDocuments(c *gin.Context) {
	identity, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	documents, err := h.service.ListDocuments(c.Request.Context(), identity.ID, identity)
	if err != nil {
		h.writeServiceError(c, err, "retrieve documents")
		return
	}
	c.JSON(http.StatusOK, documents)
}

func (h *StudentHandler) AddMyDocument(c *gin.Context) {
	identity, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	document, err := h.service.AddDocument(c.Request.Context(), identity.ID, identity, req)
	if err != nil {
		h.writeServiceError(c, err, "add document")
		return
	}
	c.JSON(http.StatusCreated, document)
}

func (h *StudentHandler) GetMyFees(c *gin.Context) {
	identity, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	fees, err := h.service.ListFees(c.Request.Context(), identity.ID, identity)
	if err != nil {
		h.writeServiceError(c, err, "retrieve fees")
		return
	}
	c.JSON(http.StatusOK, fees)
}

// --- Admin dashboard ---

func studentIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return 0, false
	}
	return id, true
}

func (h *StudentHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, "retrieve dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, "list students")
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err, "retrieve student")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err, "update student")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) GetStudentDocuments(c *gin.Context) {
	identity, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	documents, err := h.service.ListDocuments(c.Request.Context(), id, identity)
	if err != nil {
		h.writeServiceError(c, err, "retrieve student documents")
		return
	}
	c.JSON(http.StatusOK, documents)
}

func (h *StudentHandler) CreateStudentFee(c *gin.Context) {
	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	var req model.CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	fee, err := h.service.CreateFee(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err, "create fee")
		return
	}
	c.JSON(http.StatusCreated, fee)
}

func (h *StudentHandler) RecordFeePayment(c *gin.Context) {
	feeID := c.Param("id")

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	fee, err := h.service.RecordPayment(c.Request.Context(), feeID, req)
	if err != nil {
		h.writeServiceError(c, err, "record payment")
		return
	}
	c.JSON(http.StatusOK, fee)
}

// RegisterStudentRoutes wires the two role-gated areas behind the route
// guard. The guard redirects rather than 401s, matching browser navigation.
func (h *StudentHandler) RegisterStudentRoutes(rg gin.IRouter, guardMW gin.HandlerFunc) {
	portal := rg.Group("/studentportal")
	portal.Use(guardMW)
	{
		portal.GET("", h.GetSummary)
		portal.GET("/profile", h.GetMyProfile)
		portal.PUT("/profile", h.UpdateMyProfile)
		portal.GET("/documents", h.GetMyDocuments)
		portal.POST("/documents", h.AddMyDocument)
		portal.GET("/fees", h.GetMyFees)
	}

	dashboard := rg.Group("/dashboard")
	dashboard.Use(guardMW)
	{
		dashboard.GET("", h.GetDashboardStats)
		dashboard.GET("/students", h.ListStudents)
		dashboard.GET("/students/:id", h.GetStudent)
		dashboard.PUT("/students/:id", h.UpdateStudent)
		dashboard.GET("/students/:id/documents", h.GetStudentDocuments)
		dashboard.POST("/students/:id/fees", h.CreateStudentFee)
		dashboard.PUT("/fees/:id/payment", h.RecordFeePayment)
	}
}
