package class

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

// CreateSession godoc
// @Summary      Create class session
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      CreateSessionRequest  true  "Session"
// @Success      201   {object}  Session
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Router       /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanCreate {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	studioID, _ := auth.GetStudioID(c)
	s, err := h.repo.CreateSession(c.Request.Context(), studioID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, s)
}

// ListSessions godoc
// @Summary      List sessions with availability
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        upcoming  query     bool  false  "Only upcoming sessions"
// @Success      200       {array}   SessionWithAvailability
// @Failure      403       {object}  api.ErrorResponse
// @Router       /sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanView {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	onlyUpcoming := c.DefaultQuery("upcoming", "true") == "true"

	studioID, _ := auth.GetStudioID(c)
	sessions, err := h.repo.ListSessionsWithAvailability(c.Request.Context(), studioID, onlyUpcoming)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary      Get session
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  Session
// @Failure      404        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID} [get]
func (h *Handler) GetSession(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanView {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session ID"})
		return
	}

	studioID, _ := auth.GetStudioID(c)
	s, err := h.repo.GetSessionByID(c.Request.Context(), studioID, sessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// CancelSession godoc
// @Summary      Cancel session
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID}/cancel [post]
func (h *Handler) CancelSession(c *gin.Context) {
	policy, ok := h.policy(c)
	if !ok {
		return
	}
	if !policy.CanEdit {
		api.RespondError(c, apperr.ErrForbidden)
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session ID"})
		return
	}

	studioID, _ := auth.GetStudioID(c)
	if err := h.repo.CancelSession(c.Request.Context(), studioID, sessionID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Session cancelled successfully"})
}
