package member

import (
	"net/http"
	"strconv"

	"github.com/taka1452/klasly-app-sub001/internal/api"
	"github.com/taka1452/klasly-app-sub001/internal/apperr"
	"github.com/taka1452/klasly-app-sub001/internal/auth"
	"github.com/taka1452/klasly-app-sub001/internal/studio"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo       Repository
	studioRepo studio.Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo:       NewRepository(db),
		studioRepo: studio.NewRepository(db),
	}
}

func (h *Handler) policy(c *gin.Context) (studio.AccessPolicy, bool) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return studio.AccessPolicy{}, false
	}

	st, err := h.studioRepo.GetByID(c.Request.Context(), studioID)
	if err != nil {
		api.RespondError(c, err)
		return studio.AccessPolicy{}, false
	}

	return studio.PolicyFor(st.PlanStatus), true
}

// Create godoc
// @Summary      Create member
// @Description  Adds a member to the studio roster.
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateMemberRequest  true  "Member"
// @Success      201   {object}  Member
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Router       /members [post]
func (h *Handler) Create(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanCreate {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	planType := PlanType(req.PlanType)
	credits := req.Credits
	if planType == PlanMonthly {
		credits = UnlimitedCredits
	}

	studioID, _ := auth.GetStudioID(c)
	m, err := h.repo.Create(c.Request.Context(), studioID, req.Name, req.Email, planType, credits)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

// List godoc
// @Summary      List members
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Member
// @Failure      403  {object}  api.ErrorResponse
// @Router       /members [get]
func (h *Handler) List(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanView {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	studioID, _ := auth.GetStudioID(c)
	members, err := h.repo.ListByStudio(c.Request.Context(), studioID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// Get godoc
// @Summary      Get member
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200       {object}  Member
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID} [get]
func (h *Handler) Get(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanView {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	studioID, _ := auth.GetStudioID(c)
	m, err := h.repo.GetByID(c.Request.Context(), studioID, memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// UpdateStatus godoc
// @Summary      Update member status
// @Description  Pauses, reactivates, or cancels a roster membership.
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        memberID  path      int                  true  "Member ID"
// @Param        body      body      UpdateStatusRequest  true  "New status"
// @Success      200       {object}  Member
// @Failure      400       {object}  api.ErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID}/status [post]
func (h *Handler) UpdateStatus(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanEdit {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	studioID, _ := auth.GetStudioID(c)
	if err := h.repo.UpdateStatus(c.Request.Context(), studioID, memberID, Status(req.Status)); err != nil {
		api.RespondError(c, err)
		return
	}

	m, err := h.repo.GetByID(c.Request.Context(), studioID, memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}
