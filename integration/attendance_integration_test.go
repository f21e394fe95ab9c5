package booking_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taka1452/klasly-app-sub001/internal/attendance"
	"github.com/taka1452/klasly-app-sub001/internal/auth"
	"github.com/taka1452/klasly-app-sub001/internal/booking"
	"github.com/taka1452/klasly-app-sub001/internal/class"
	"github.com/taka1452/klasly-app-sub001/internal/credit"
	"github.com/taka1452/klasly-app-sub001/internal/member"
	"github.com/taka1452/klasly-app-sub001/internal/studio"
)

func newAttendanceRouter(db *sqlx.DB) *gin.Engine {
	attendanceRepo := attendance.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	classRepo := class.NewRepository(db)
	memberRepo := member.NewRepository(db)
	studioRepo := studio.NewRepository(db)
	creditRepo := credit.NewRepository(db)

	attendanceSvc := attendance.NewService(attendanceRepo, bookingRepo, classRepo, memberRepo, studioRepo)
	attendanceHandler := attendance.NewHandler(attendanceSvc)

	creditSvc := credit.NewService(creditRepo, memberRepo, studioRepo)
	creditHandler := credit.NewHandler(creditSvc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	authed := router.Group("/", auth.AuthMiddleware("test-secret"))
	authed.POST("/sessions/:sessionID/dropins", attendanceHandler.RecordDropIn)
	authed.GET("/sessions/:sessionID/dropins", attendanceHandler.ListDropIns)
	authed.POST("/bookings/:bookingID/attendance", attendanceHandler.Toggle)
	authed.POST("/credits/deduct", creditHandler.Deduct)
	authed.POST("/members/:memberID/credits/adjust", creditHandler.Adjust)
	return router
}

func postJSON(router *gin.Engine, path, token string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDropInFlowIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	router := newAttendanceRouter(db)

	t.Run("Record drop-in then deduct exactly once", func(t *testing.T) {
		cleanDatabase(t, db)

		studioID := createTestStudio(t, db, "Sunrise Pilates", "active")
		memberID := createTestMember(t, db, studioID, "dropin@example.com", "drop_in", 3)
		sessionID := createTestSession(t, db, studioID, time.Now().Add(2*time.Hour), 10)
		token := staffToken(studioID)

		w := postJSON(router, fmt.Sprintf("/sessions/%d/dropins", sessionID), token,
			attendance.RecordDropInRequest{MemberID: memberID})
		require.Equal(t, http.StatusCreated, w.Code)

		var recorded attendance.DropInAttendance
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recorded))
		assert.False(t, recorded.CreditDeducted)
		assert.Equal(t, 3, memberCredits(t, db, memberID))

		w = postJSON(router, "/credits/deduct", token,
			credit.DeductRequest{MemberID: memberID, DropInID: &recorded.ID})
		require.Equal(t, http.StatusOK, w.Code)

		var balance credit.BalanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
		assert.Equal(t, 2, balance.CreditsRemaining)

		// Retrying the same drop-in must not charge twice.
		w = postJSON(router, "/credits/deduct", token,
			credit.DeductRequest{MemberID: memberID, DropInID: &recorded.ID})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 2, memberCredits(t, db, memberID))

		var ledgerRows int
		require.NoError(t, db.Get(&ledgerRows, "SELECT COUNT(*) FROM credit_transactions WHERE member_id = $1", memberID))
		assert.Equal(t, 1, ledgerRows)
	})

	t.Run("Drop-in on cancelled session rejected", func(t *testing.T) {
		cleanDatabase(t, db)

		studioID := createTestStudio(t, db, "Sunrise Pilates", "active")
		memberID := createTestMember(t, db, studioID, "dropin@example.com", "drop_in", 3)
		sessionID := createTestSession(t, db, studioID, time.Now().Add(2*time.Hour), 10)

		_, err := db.Exec("UPDATE class_sessions SET is_cancelled = TRUE WHERE id = $1", sessionID)
		require.NoError(t, err)

		w := postJSON(router, fmt.Sprintf("/sessions/%d/dropins", sessionID), staffToken(studioID),
			attendance.RecordDropInRequest{MemberID: memberID})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAttendanceToggleIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanDatabase(t, db)

	bookingRouter := newBookingRouter(db)
	router := newAttendanceRouter(db)

	studioID := createTestStudio(t, db, "Sunrise Pilates", "active")
	memberID := createTestMember(t, db, studioID, "pack@example.com", "pack", 10)
	sessionID := createTestSession(t, db, studioID, time.Now().Add(24*time.Hour), 5)

	w := bookSession(bookingRouter, sessionID, memberToken(studioID, memberID, "pack@example.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var booked booking.BookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))

	attended := true
	wt := postJSON(router, fmt.Sprintf("/bookings/%d/attendance", booked.Booking.ID), staffToken(studioID),
		attendance.ToggleRequest{Attended: &attended})
	require.Equal(t, http.StatusOK, wt.Code)

	var response attendance.ToggleResponse
	require.NoError(t, json.Unmarshal(wt.Body.Bytes(), &response))
	assert.True(t, response.Attended)

	// Marking attendance never touches the credit that the booking took.
	var row struct {
		Attended       bool `db:"attended"`
		CreditDeducted bool `db:"credit_deducted"`
	}
	require.NoError(t, db.Get(&row, "SELECT attended, credit_deducted FROM bookings WHERE id = $1", booked.Booking.ID))
	assert.True(t, row.Attended)
	assert.True(t, row.CreditDeducted)
	assert.Equal(t, 9, memberCredits(t, db, memberID))
}

func TestCreditAdjustIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanDatabase(t, db)

	router := newAttendanceRouter(db)

	studioID := createTestStudio(t, db, "Sunrise Pilates", "active")
	memberID := createTestMember(t, db, studioID, "pack@example.com", "pack", 3)

	ownerToken, _ := auth.GenerateAccessToken(1, studioID, 0, "owner@example.com", auth.RoleOwner, "test-secret")

	w := postJSON(router, fmt.Sprintf("/members/%d/credits/adjust", memberID), ownerToken,
		credit.AdjustRequest{Credits: 10})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 10, memberCredits(t, db, memberID))

	var ledger struct {
		Delta        int    `db:"delta"`
		BalanceAfter int    `db:"balance_after"`
		SourceKind   string `db:"source_kind"`
	}
	require.NoError(t, db.Get(&ledger, "SELECT delta, balance_after, source_kind FROM credit_transactions WHERE member_id = $1", memberID))
	assert.Equal(t, 7, ledger.Delta)
	assert.Equal(t, 10, ledger.BalanceAfter)
	assert.Equal(t, "adjustment", ledger.SourceKind)
}
