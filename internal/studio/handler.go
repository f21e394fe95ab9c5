package studio

import (
	"net/http"

	"github.com/taka1452/klasly-app-sub001/internal/api"
	"github.com/taka1452/klasly-app-sub001/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetAccess godoc
// @Summary      Current plan status and feature access
// @Description  Returns the studio's plan status and the derived access policy the UI should gate on.
// @Tags         studios
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  api.ErrorResponse
// @Router       /plans/access [get]
func (h *Handler) GetAccess(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	st, err := h.repo.GetByID(c.Request.Context(), studioID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan_status":          st.PlanStatus,
		"trial_ends_at":        st.TrialEndsAt,
		"grace_period_ends_at": st.GracePeriodEndsAt,
		"access":               PolicyFor(st.PlanStatus),
	})
}
