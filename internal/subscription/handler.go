package subscription

import (
	"net/http"

	"github.com/taka1452/klasly-app-sub001/internal/api"
	"github.com/taka1452/klasly-app-sub001/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    Service
	sweepToken string
}

func NewHandler(service Service, sweepToken string) *Handler {
	return &Handler{service: service, sweepToken: sweepToken}
}

// Webhook godoc
// @Summary      Billing webhook
// @Description  Accepts normalized payment-processor events and advances the studio's plan status. Duplicate events are acknowledged without effect.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body      Event  true  "Billing event"
// @Success      200   {object}  api.MessageResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /webhooks/billing [post]
func (h *Handler) Webhook(c *gin.Context) {
	var evt Event
	if err := c.ShouldBindJSON(&evt); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if _, err := h.service.ApplyEvent(c.Request.Context(), evt); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Event processed"})
}

// SweepGrace godoc
// @Summary      Run the grace-expiration sweep
// @Description  Cancels every studio whose grace window has elapsed. Guarded by a shared token; intended for the scheduler, not end users.
// @Tags         billing
// @Produce      json
// @Param        X-Sweep-Token  header    string  true  "Sweep token"
// @Success      200            {object}  SweepResponse
// @Failure      401            {object}  api.ErrorResponse
// @Router       /internal/sweeps/grace [post]
func (h *Handler) SweepGrace(c *gin.Context) {
	if h.sweepToken == "" || c.GetHeader("X-Sweep-Token") != h.sweepToken {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid sweep token"})
		return
	}

	count, err := h.service.ReconcileGraceExpirations(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SweepResponse{TransitionedCount: count})
}

// Cancel godoc
// @Summary      Cancel the studio's subscription at period end
// @Description  Flags the studio for cancellation and tells the payment processor to stop renewing. Access continues until the processor closes the period.
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /subscription/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), studioID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Cancellation scheduled for period end"})
}

// ResetToTrial godoc
// @Summary      Reset the studio to a fresh trial
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /subscription/reset [post]
func (h *Handler) ResetToTrial(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.service.ResetToTrial(c.Request.Context(), studioID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Studio reset to trial"})
}
