package booking

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

// Book godoc
// @Summary      Book a session
// @Description  Places a member into a session: confirmed while seats remain, waitlist once full. Members book themselves; staff pass member_id.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int          true   "Session ID"
// @Param        body       body      BookRequest  false  "Member to book (staff only)"
// @Success      201        {object}  BookResponse
// @Failure      400        {object}  api.ErrorResponse
// @Failure      402        {object}  api.ErrorResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID}/book [post]
func (h *Handler) Book(c *gin.Context) {
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

	callerMemberID, _ := auth.GetMemberID(c)

	var req BookRequest
	_ = c.ShouldBindJSON(&req)

	memberID := req.MemberID
	if memberID == 0 {
		memberID = callerMemberID
	}
	if memberID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "member_id is required"})
		return
	}

	b, err := h.service.CreateOrRebook(c.Request.Context(), studioID, callerMemberID, memberID, sessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, BookResponse{Booking: b})
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Cancels a booking. A confirmed booking refunds its credit; a waitlisted one took none.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  CancelResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
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

	callerMemberID, _ := auth.GetMemberID(c)

	b, err := h.service.Cancel(c.Request.Context(), studioID, callerMemberID, bookingID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelResponse{Booking: b})
}

// ListMy godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Booking
// @Failure      401  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMy(c *gin.Context) {
	studioID, exists := auth.GetStudioID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	memberID, _ := auth.GetMemberID(c)
	if memberID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Account is not linked to a member"})
		return
	}

	bookings, err := h.service.ListForMember(c.Request.Context(), studioID, memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBySession godoc
// @Summary      List bookings for a session
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {array}   BookingWithMember
// @Failure      404        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID}/bookings [get]
func (h *Handler) ListBySession(c *gin.Context) {
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

	bookings, err := h.service.ListBySession(c.Request.Context(), studioID, sessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListWaitlist godoc
// @Summary      List session waitlist
// @Description  Waitlisted bookings in FIFO creation order.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {array}   BookingWithMember
// @Failure      404        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID}/waitlist [get]
func (h *Handler) ListWaitlist(c *gin.Context) {
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

	bookings, err := h.service.ListWaitlist(c.Request.Context(), studioID, sessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}
