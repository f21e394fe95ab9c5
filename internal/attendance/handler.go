package attendance

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

// Toggle godoc
// @Summary      Toggle booking attendance
// @Description  Flips the attended flag on a booking. Owner only; credits are untouched.
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int            true  "Booking ID"
// @Param        body       body      ToggleRequest  true  "Attended flag"
// @Success      200        {object}  ToggleResponse
// @Failure      400        {object}  api.ErrorResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/attendance [post]
func (h *Handler) Toggle(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	b, err := h.service.ToggleBookingAttendance(c.Request.Context(), studioID, bookingID, *req.Attended)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{BookingID: b.ID, Attended: b.Attended})
}

// RecordDropIn godoc
// @Summary      Record a drop-in
// @Description  Checks in a walk-in member with no prior booking. The credit is taken by a separate deduction call.
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                  true  "Session ID"
// @Param        body       body      RecordDropInRequest  true  "Member"
// @Success      201        {object}  DropInAttendance
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID}/dropins [post]
func (h *Handler) RecordDropIn(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session ID"})
		return
	}

	var req RecordDropInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	d, err := h.service.RecordDropIn(c.Request.Context(), studioID, req.MemberID, sessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

// ListDropIns godoc
// @Summary      List drop-ins for a session
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {array}   DropInAttendance
// @Failure      404        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID}/dropins [get]
func (h *Handler) ListDropIns(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session ID"})
		return
	}

	dropIns, err := h.service.ListDropInsBySession(c.Request.Context(), studioID, sessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dropIns)
}
