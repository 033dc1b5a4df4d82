package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/usecase"
)

// AdminHandler exposes the administrator console endpoints.
type AdminHandler struct {
	admins     *usecase.AdminService
	donors     *usecase.DonorService
	volunteers *usecase.VolunteerService
	operators  *usecase.OperatorService
	donations  *usecase.DonationService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(
	admins *usecase.AdminService,
	donors *usecase.DonorService,
	volunteers *usecase.VolunteerService,
	operators *usecase.OperatorService,
	donations *usecase.DonationService,
) *AdminHandler {
	return &AdminHandler{
		admins:     admins,
		donors:     donors,
		volunteers: volunteers,
		operators:  operators,
		donations:  donations,
	}
}

// RegisterPublicRoutes binds the admin login route.
func (h *AdminHandler) RegisterPublicRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	chain = append(chain, h.login)
	r.POST("/login", chain...)
}

// RegisterProtectedRoutes binds the moderation console routes.
func (h *AdminHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.dashboard)
	r.GET("/donations", h.listDonations)

	r.GET("/donors", h.listDonors)
	r.PUT("/donors/:id/block", h.blockDonor)
	r.PUT("/donors/:id/unblock", h.unblockDonor)

	r.GET("/volunteers", h.listVolunteers)
	r.PUT("/volunteers/:id/block", h.blockVolunteer)
	r.PUT("/volunteers/:id/unblock", h.unblockVolunteer)

	r.GET("/elder-homes", h.listOperators)
	r.GET("/elder-homes/pending", h.listPendingOperators)
	r.GET("/elder-homes/:id", h.getOperator)
	r.PUT("/elder-homes/:id/approve", h.approveOperator)
	r.PUT("/elder-homes/:id/reject", h.rejectOperator)
	r.PUT("/elder-homes/:id/block", h.blockOperator)
	r.PUT("/elder-homes/:id/unblock", h.unblockOperator)
}

func (h *AdminHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username and password are required"))
		return
	}

	admin, token, err := h.admins.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User: gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"role":     "admin",
		},
	})
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	stats, err := h.admins.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donorCount":         stats.Donors,
		"volunteerCount":     stats.Volunteers,
		"pendingApprovals":   stats.OperatorsPending,
		"approvedElderHomes": stats.OperatorsApproved,
		"rejectedElderHomes": stats.OperatorsRejected,
		"totalDonationsLKR":  stats.TotalDonationsLKR,
	})
}

func (h *AdminHandler) listDonations(c *gin.Context) {
	donations, err := h.donations.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, donationSummaries(donations))
}

func (h *AdminHandler) listDonors(c *gin.Context) {
	donors, err := h.donors.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, donorSummaries(donors))
}

func (h *AdminHandler) listVolunteers(c *gin.Context) {
	volunteers, err := h.volunteers.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, volunteerSummaries(volunteers))
}

func (h *AdminHandler) listOperators(c *gin.Context) {
	operators, err := h.operators.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, operatorSummaries(operators))
}

func (h *AdminHandler) listPendingOperators(c *gin.Context) {
	operators, err := h.admins.ListOperatorsByStatus(c.Request.Context(), domain.ApprovalPending)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, operatorSummaries(operators))
}

func (h *AdminHandler) getOperator(c *gin.Context) {
	operator, err := h.operators.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, operatorSummary(operator))
}

func (h *AdminHandler) approveOperator(c *gin.Context) {
	operator, err := h.admins.ApproveOperator(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Elder home approved",
		"user":    operatorSummary(operator),
	})
}

// rejectOperator takes an optional reason in the body. The service
// substitutes a default when it is empty.
func (h *AdminHandler) rejectOperator(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	operator, err := h.admins.RejectOperator(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Elder home rejected",
		"user":    operatorSummary(operator),
	})
}

func (h *AdminHandler) blockOperator(c *gin.Context)   { h.setOperatorBlocked(c, true) }
func (h *AdminHandler) unblockOperator(c *gin.Context) { h.setOperatorBlocked(c, false) }

func (h *AdminHandler) setOperatorBlocked(c *gin.Context, blocked bool) {
	operator, err := h.admins.SetOperatorBlocked(c.Request.Context(), c.Param("id"), blocked)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": blockMessage(blocked),
		"user":    operatorSummary(operator),
	})
}

func (h *AdminHandler) blockDonor(c *gin.Context)   { h.setDonorBlocked(c, true) }
func (h *AdminHandler) unblockDonor(c *gin.Context) { h.setDonorBlocked(c, false) }

func (h *AdminHandler) setDonorBlocked(c *gin.Context, blocked bool) {
	donor, err := h.admins.SetDonorBlocked(c.Request.Context(), c.Param("id"), blocked)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": blockMessage(blocked),
		"user":    donorSummary(donor),
	})
}

func (h *AdminHandler) blockVolunteer(c *gin.Context)   { h.setVolunteerBlocked(c, true) }
func (h *AdminHandler) unblockVolunteer(c *gin.Context) { h.setVolunteerBlocked(c, false) }

func (h *AdminHandler) setVolunteerBlocked(c *gin.Context, blocked bool) {
	volunteer, err := h.admins.SetVolunteerBlocked(c.Request.Context(), c.Param("id"), blocked)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": blockMessage(blocked),
		"user":    volunteerSummary(volunteer),
	})
}

func blockMessage(blocked bool) string {
	if blocked {
		return "Account blocked"
	}
	return "Account unblocked"
}
