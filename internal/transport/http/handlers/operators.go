package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/storage"
	"github.com/abhishek070702/Safe-Heaven/internal/transport/http/middleware"
	"github.com/abhishek070702/Safe-Heaven/internal/usecase"
)

// msgRegistrationPending confirms a submitted operator application.
const msgRegistrationPending = "Registration successful! Your application is pending admin approval."

// OperatorHandler exposes elder-home operator endpoints.
type OperatorHandler struct {
	operators *usecase.OperatorService
	donations *usecase.DonationService
	community *usecase.CommunityService
}

// NewOperatorHandler constructs OperatorHandler.
func NewOperatorHandler(operators *usecase.OperatorService, donations *usecase.DonationService, community *usecase.CommunityService) *OperatorHandler {
	return &OperatorHandler{operators: operators, donations: donations, community: community}
}

// RegisterPublicRoutes binds the unauthenticated operator routes.
func (h *OperatorHandler) RegisterPublicRoutes(r *gin.RouterGroup, registerMiddlewares, loginMiddlewares []gin.HandlerFunc) {
	registerChain := append([]gin.HandlerFunc{}, registerMiddlewares...)
	registerChain = append(registerChain, h.register)
	r.POST("/register", registerChain...)

	loginChain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	loginChain = append(loginChain, h.login)
	r.POST("/login", loginChain...)
}

// RegisterProtectedRoutes binds routes available to any authenticated
// operator, approved or not.
func (h *OperatorHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.profile)
	r.PUT("/profile", h.updateProfile)
	r.DELETE("/profile", h.deleteAccount)
}

// RegisterApprovedRoutes binds the capability-bearing routes gated on
// administrator approval.
func (h *OperatorHandler) RegisterApprovedRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.dashboard)
	r.GET("/donations", h.listDonations)
	r.POST("/events", h.createEvent)
	r.GET("/events", h.listEvents)
	r.DELETE("/events/:id", h.deleteEvent)
	r.POST("/patients", h.admitPatient)
	r.GET("/patients", h.listPatients)
	r.GET("/feedback", h.listFeedback)
}

// RegisterBrowseRoutes binds the public elder-home directory.
func (h *OperatorHandler) RegisterBrowseRoutes(r *gin.RouterGroup) {
	r.GET("", h.listApproved)
	r.GET("/check-name", h.checkHomeName)
	r.GET("/:id", h.getHome)
	r.GET("/:id/feedback", h.listHomeFeedback)
}

// RegisterDonorFeedbackRoutes binds the feedback submission route. It
// must sit behind the donor guard so the author can be attributed.
func (h *OperatorHandler) RegisterDonorFeedbackRoutes(r *gin.RouterGroup) {
	r.POST("/:id/feedback", h.addHomeFeedback)
}

// register accepts the operator application: account fields plus the
// license document and one to five home photos.
func (h *OperatorHandler) register(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid multipart payload"))
		return
	}

	if !checkUploadFields(c, storage.FieldLicenseDocument, storage.FieldHomePhotos) {
		return
	}

	input := usecase.OperatorRegistration{
		FullName:      c.PostForm("fullName"),
		Username:      c.PostForm("username"),
		Email:         c.PostForm("email"),
		Address:       c.PostForm("address"),
		ContactNumber: c.PostForm("contactNumber"),
		Password:      c.PostForm("password"),
		HomeName:      c.PostForm("homeName"),
		HomeAddress:   c.PostForm("homeAddress"),
		AccountNumber: c.PostForm("accountNumber"),
		Capacity:      c.PostForm("capacity"),
		Description:   c.PostForm("description"),
	}

	if file, err := c.FormFile(storage.FieldLicenseDocument); err == nil {
		input.License = file
	}

	if form := c.Request.MultipartForm; form != nil {
		input.HomePhotos = form.File[storage.FieldHomePhotos]
	}

	operator, err := h.operators.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": msgRegistrationPending,
		"user":    operatorSummary(operator),
	})
}

// login maps the approval state machine onto response codes: approved
// gets a token, pending gets 202 without one, rejected gets 403 with
// the stored reason.
func (h *OperatorHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username and password are required"))
		return
	}

	result, err := h.operators.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	switch result.ApprovalStatus {
	case domain.ApprovalPending:
		c.JSON(http.StatusAccepted, PendingApprovalResponse{
			Message:        "Your account is pending approval from admin.",
			ApprovalStatus: result.ApprovalStatus,
		})
	case domain.ApprovalRejected:
		c.JSON(http.StatusForbidden, RejectedResponse{
			Message:         "Your account application was rejected.",
			ApprovalStatus:  result.ApprovalStatus,
			RejectionReason: result.RejectionReason,
		})
	default:
		c.JSON(http.StatusOK, AuthResponse{Token: result.Token, User: operatorSummary(result.Operator)})
	}
}

func (h *OperatorHandler) profile(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	operator, err := h.operators.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, operatorSummary(operator))
}

func (h *OperatorHandler) updateProfile(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid multipart payload"))
		return
	}

	// Operator profile updates carry no files.
	if !checkUploadFields(c) {
		return
	}

	capacity, _ := strconv.Atoi(c.PostForm("capacity"))
	input := usecase.OperatorProfileUpdate{
		FullName:      c.PostForm("fullName"),
		Email:         c.PostForm("email"),
		Address:       c.PostForm("address"),
		ContactNumber: c.PostForm("contactNumber"),
		HomeAddress:   c.PostForm("homeAddress"),
		Capacity:      capacity,
		Description:   c.PostForm("description"),
	}

	operator, token, err := h.operators.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: operatorSummary(operator)})
}

func (h *OperatorHandler) deleteAccount(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.operators.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

// dashboard aggregates the home's donations, patients, and feedback.
func (h *OperatorHandler) dashboard(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	ctx := c.Request.Context()

	total, err := h.donations.TotalByOperator(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	patients, err := h.community.ListPatients(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	feedback, err := h.community.ListHomeFeedback(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	events, err := h.community.ListEventsByOperator(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalDonationsLKR": total,
		"patientCount":      len(patients),
		"feedbackCount":     len(feedback),
		"eventCount":        len(events),
	})
}

func (h *OperatorHandler) listDonations(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	donations, err := h.donations.ListByOperator(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationSummaries(donations))
}

func (h *OperatorHandler) createEvent(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid event payload"))
		return
	}

	event, err := h.community.CreateEvent(c.Request.Context(), usecase.EventInput{
		OperatorID:  id,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *OperatorHandler) listEvents(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	events, err := h.community.ListEventsByOperator(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *OperatorHandler) deleteEvent(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.community.DeleteEvent(c.Request.Context(), c.Param("id"), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted"})
}

func (h *OperatorHandler) admitPatient(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid patient payload"))
		return
	}

	patient, err := h.community.AdmitPatient(c.Request.Context(), usecase.PatientInput{
		OperatorID:       id,
		DonorID:          req.DonorID,
		Name:             req.Name,
		Age:              req.Age,
		NationalID:       req.NationalID,
		Gender:           req.Gender,
		PhoneNumber:      req.PhoneNumber,
		DateOfBirth:      req.DateOfBirth,
		MedicalCondition: req.MedicalCondition,
		Allergies:        req.Allergies,
		SpecialCare:      req.SpecialCare,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, patient)
}

func (h *OperatorHandler) listPatients(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	patients, err := h.community.ListPatients(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, patients)
}

func (h *OperatorHandler) listFeedback(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	feedback, err := h.community.ListHomeFeedback(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// listApproved is the public directory of approved elder homes.
func (h *OperatorHandler) listApproved(c *gin.Context) {
	operators, err := h.operators.ListApproved(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, operatorSummaries(operators))
}

// checkHomeName backs the registration form's live availability hint.
func (h *OperatorHandler) checkHomeName(c *gin.Context) {
	homeName := c.Query("homeName")
	if homeName == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "homeName query parameter is required"))
		return
	}

	available, err := h.operators.HomeNameAvailable(c.Request.Context(), homeName)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *OperatorHandler) getHome(c *gin.Context) {
	operator, err := h.operators.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, operatorSummary(operator))
}

func (h *OperatorHandler) listHomeFeedback(c *gin.Context) {
	feedback, err := h.community.ListHomeFeedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

func (h *OperatorHandler) addHomeFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "rating is required"))
		return
	}

	value, _ := c.Get(DonorContextKey)
	donor, ok := value.(*domain.Donor)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	feedback, err := h.community.AddHomeFeedback(c.Request.Context(), c.Param("id"), donor.Username, req.Rating, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}
