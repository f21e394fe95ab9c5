package credit

import (
	"net/http"
	"strconv"

	"github.com/taka1452/klasly-app-sub001/internal/api"
	"github.com/taka1452/klasly-app-sub001/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Deduct godoc
// @Summary      Deduct one credit
// @Description  Consumes one credit against a booking or drop-in. At most one deduction per source record; repeats return 409.
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      DeductRequest  true  "Deduction source"
// @Success      200   {object}  BalanceResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      402   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /credits/deduct [post]
func (h *Handler) Deduct(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	balance, err := h.service.Deduct(c.Request.Context(), studioID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{MemberID: req.MemberID, CreditsRemaining: balance})
}

// Adjust godoc
// @Summary      Set a member's credit balance
// @Description  Owner-only absolute adjustment for pack and drop-in members. Monthly members are rejected.
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        memberID  path      int            true  "Member ID"
// @Param        body      body      AdjustRequest  true  "New balance"
// @Success      200       {object}  BalanceResponse
// @Failure      400       {object}  api.ErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID}/credits/adjust [post]
func (h *Handler) Adjust(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	balance, err := h.service.Adjust(c.Request.Context(), studioID, memberID, req.Credits)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{MemberID: memberID, CreditsRemaining: balance})
}

// Balance godoc
// @Summary      Member balance and recent ledger entries
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200       {object}  map[string]interface{}
// @Failure      404       {object}  api.ErrorResponse
// @Router       /members/{memberID}/credits [get]
func (h *Handler) Balance(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	m, txs, err := h.service.Balance(c.Request.Context(), studioID, memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member_id":         m.ID,
		"credits_remaining": m.Credits,
		"unlimited":         m.Unlimited(),
		"transactions":      txs,
	})
}
