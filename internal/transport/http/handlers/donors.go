package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/storage"
	"github.com/abhishek070702/Safe-Heaven/internal/transport/http/middleware"
	"github.com/abhishek070702/Safe-Heaven/internal/usecase"
)

// donationDonorType marks donations recorded through donor routes.
const donationDonorType = domain.DonorTypeDonor

// DonorHandler exposes donor account endpoints.
type DonorHandler struct {
	donors    *usecase.DonorService
	donations *usecase.DonationService
}

// NewDonorHandler constructs DonorHandler.
func NewDonorHandler(donors *usecase.DonorService, donations *usecase.DonationService) *DonorHandler {
	return &DonorHandler{donors: donors, donations: donations}
}

// RegisterPublicRoutes binds the unauthenticated donor routes.
func (h *DonorHandler) RegisterPublicRoutes(r *gin.RouterGroup, registerMiddlewares, loginMiddlewares []gin.HandlerFunc) {
	registerChain := append([]gin.HandlerFunc{}, registerMiddlewares...)
	registerChain = append(registerChain, h.register)
	r.POST("/register", registerChain...)

	loginChain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	loginChain = append(loginChain, h.login)
	r.POST("/login", loginChain...)
}

// RegisterProtectedRoutes binds the donor routes behind the donor guard.
func (h *DonorHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.profile)
	r.PUT("/profile", h.updateProfile)
	r.DELETE("/profile", h.deleteAccount)
	r.POST("/donations", h.donate)
	r.GET("/donations", h.listDonations)
}

// register accepts a multipart form so the optional profile photo can
// travel with the account fields.
func (h *DonorHandler) register(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid multipart payload"))
		return
	}

	if !checkUploadFields(c, storage.FieldProfilePhoto) {
		return
	}

	input := usecase.DonorRegistration{
		FullName:      c.PostForm("fullName"),
		Username:      c.PostForm("username"),
		Email:         c.PostForm("email"),
		Address:       c.PostForm("address"),
		ContactNumber: c.PostForm("contactNumber"),
		Description:   c.PostForm("description"),
		Password:      c.PostForm("password"),
	}

	if file, err := c.FormFile(storage.FieldProfilePhoto); err == nil {
		input.ProfilePhoto = file
	}

	donor, token, err := h.donors.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: donorSummary(donor)})
}

func (h *DonorHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username and password are required"))
		return
	}

	donor, token, err := h.donors.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: donorSummary(donor)})
}

func (h *DonorHandler) profile(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	donor, err := h.donors.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, donorSummary(donor))
}

// updateProfile merges only the provided fields; a new token is issued
// because profile data is embedded in client session state.
func (h *DonorHandler) updateProfile(c *gin.Context) {
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

	input := usecase.DonorProfileUpdate{
		FullName:      c.PostForm("fullName"),
		Username:      c.PostForm("username"),
		Email:         c.PostForm("email"),
		Address:       c.PostForm("address"),
		ContactNumber: c.PostForm("contactNumber"),
		Description:   c.PostForm("description"),
	}

	if file, err := c.FormFile(storage.FieldProfilePhoto); err == nil {
		input.ProfilePhoto = file
	}

	donor, token, err := h.donors.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: donorSummary(donor)})
}

func (h *DonorHandler) deleteAccount(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.donors.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}

func (h *DonorHandler) donate(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid donation payload"))
		return
	}

	donation, err := h.donations.Create(c.Request.Context(), usecase.DonationInput{
		DonorID:     id,
		DonorType:   donationDonorType,
		OperatorID:  req.OperatorID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, donationSummary(donation))
}

func (h *DonorHandler) listDonations(c *gin.Context) {
	id, ok := middleware.GetAuthenticatedAccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	donations, err := h.donations.ListByDonor(c.Request.Context(), id, donationDonorType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationSummaries(donations))
}
