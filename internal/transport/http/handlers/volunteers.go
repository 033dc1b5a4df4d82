package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/storage"
	"github.com/abhishek070702/Safe-Heaven/internal/transport/http/middleware"
	"github.com/abhishek070702/Safe-Heaven/internal/usecase"
)

// VolunteerHandler exposes volunteer account endpoints.
type VolunteerHandler struct {
	volunteers *usecase.VolunteerService
	community  *usecase.CommunityService
}

// NewVolunteerHandler constructs VolunteerHandler.
func NewVolunteerHandler(volunteers *usecase.VolunteerService, community *usecase.CommunityService) *VolunteerHandler {
	return &VolunteerHandler{volunteers: volunteers, community: community}
}

// RegisterPublicRoutes binds the unauthenticated volunteer routes.
func (h *VolunteerHandler) RegisterPublicRoutes(r *gin.RouterGroup, registerMiddlewares, loginMiddlewares []gin.HandlerFunc) {
	registerChain := append([]gin.HandlerFunc{}, registerMiddlewares...)
	registerChain = append(registerChain, h.register)
	r.POST("/register", registerChain...)

	loginChain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	loginChain = append(loginChain, h.login)
	r.POST("/login", loginChain...)

	r.GET("/check-username", h.checkUsername)
	r.GET("/check-email", h.checkEmail)
}

// RegisterProtectedRoutes binds the volunteer routes behind the volunteer guard.
func (h *VolunteerHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.profile)
	r.GET("/dashboard", h.dashboard)
	r.PUT("/profile", h.updateProfile)
	r.DELETE("/profile", h.deleteAccount)
	r.GET("/events", h.listEvents)
	r.POST("/events/:id/join", h.joinEvent)
	r.POST("/events/:id/leave", h.leaveEvent)
}

func (h *VolunteerHandler) register(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid multipart payload"))
		return
	}

	if !checkUploadFields(c, storage.FieldProfilePhoto) {
		return
	}

	age, _ := strconv.Atoi(c.PostForm("age"))

	var dateOfBirth time.Time
	if raw := c.PostForm("dateOfBirth"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Date of birth must use the YYYY-MM-DD format"))
			return
		}
		dateOfBirth = parsed
	}

	input := usecase.VolunteerRegistration{
		Name:        c.PostForm("name"),
		Username:    c.PostForm("username"),
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		Phone:       c.PostForm("phone"),
		Age:         age,
		DateOfBirth: dateOfBirth,
		Address:     c.PostForm("address"),
		Role:        c.PostForm("role"),
		Description: c.PostForm("description"),
		Skills:      parseSkills(c),
	}

	if raw := c.PostForm("availability"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Availability); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Availability must be valid JSON"))
			return
		}
	}

	if file, err := c.FormFile(storage.FieldProfilePhoto); err == nil {
		input.ProfilePhoto = file
	}

	volunteer, token, err := h.volunteers.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: volunteerSummary(volunteer)})
}

// parseSkills accepts either repeated skills fields or one comma
// separated value.
func parseSkills(c *gin.Context) []string {
	values := c.PostFormArray("skills")
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}

	skills := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

func (h *VolunteerHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username and password are required"))
		return
	}

	volunteer, token, err := h.volunteers.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: volunteerSummary(volunteer)})
}

func (h *VolunteerHandler) profile(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	volunteer, err := h.volunteers.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, volunteerSummary(volunteer))
}

func (h *VolunteerHandler) updateProfile(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid multipart payload"))
		return
	}

	if !checkUploadFields(c, storage.FieldProfilePhoto) {
		return
	}

	input := usecase.VolunteerProfileUpdate{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Address:     c.PostForm("address"),
		Role:        c.PostForm("role"),
		Description: c.PostForm("description"),
		Skills:      parseSkills(c),
	}

	if raw := c.PostForm("availability"); raw != "" {
		var availability domain.Availability
		if err := json.Unmarshal([]byte(raw), &availability); err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Availability must be valid JSON"))
			return
		}
		input.Availability = &availability
	}

	if file, err := c.FormFile(storage.FieldProfilePhoto); err == nil {
		input.ProfilePhoto = file
	}

	volunteer, token, err := h.volunteers.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: volunteerSummary(volunteer)})
}

func (h *VolunteerHandler) deleteAccount(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.volunteers.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

// checkUsername and checkEmail back the registration form's live
// availability hints.
func (h *VolunteerHandler) checkUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username query parameter is required"))
		return
	}

	available, err := h.volunteers.UsernameAvailable(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *VolunteerHandler) checkEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email query parameter is required"))
		return
	}

	available, err := h.volunteers.EmailAvailable(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

// dashboard bundles the volunteer's profile with the open event list.
func (h *VolunteerHandler) dashboard(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	volunteer, err := h.volunteers.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events, err := h.community.ListEvents(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   volunteerSummary(volunteer),
		"events": events,
	})
}

func (h *VolunteerHandler) listEvents(c *gin.Context) {
	events, err := h.community.ListEvents(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *VolunteerHandler) joinEvent(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.community.JoinEvent(c.Request.Context(), c.Param("id"), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Joined event"})
}

func (h *VolunteerHandler) leaveEvent(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.community.LeaveEvent(c.Request.Context(), c.Param("id"), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Left event"})
}

// AddFeedback records a rating for a volunteer. Bound by operator routes.
func (h *VolunteerHandler) AddFeedback(c *gin.Context) {
	var req VolunteerFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "rating is required"))
		return
	}

	volunteer, err := h.volunteers.AddFeedback(c.Request.Context(), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, volunteerSummary(volunteer))
}
