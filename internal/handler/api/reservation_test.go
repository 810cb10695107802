//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"gearlend/internal/handler/api"
	"gearlend/internal/usecase/commands"
	"gearlend/internal/usecase/queries"
	"gearlend/internal/usecase/shared"
)

type stubBorrowCommands struct {
	reserveResult *commands.ReserveResult
	reserveErr    error
	returnResult  *commands.ReturnResult
	returnErr     error
}

func (s *stubBorrowCommands) Reserve(ctx context.Context, poolName string, quantity int, start, end time.Time, borrowerID uuid.UUID) (*commands.ReserveResult, error) {
	if s.reserveErr != nil {
		return nil, s.reserveErr
	}
	return s.reserveResult, nil
}

func (s *stubBorrowCommands) Return(ctx context.Context, reservationID uuid.UUID) (*commands.ReturnResult, error) {
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.returnResult, nil
}

type stubReservationQueries struct {
	borrowings []*queries.BorrowingView
}

func (s *stubReservationQueries) History(ctx context.Context, filter queries.HistoryFilter) ([]*queries.BorrowingView, error) {
	return s.borrowings, nil
}

func (s *stubReservationQueries) MyBorrowings(ctx context.Context, borrowerID uuid.UUID) ([]*queries.BorrowingView, error) {
	return s.borrowings, nil
}

func (s *stubReservationQueries) DueReservations(ctx context.Context, lookaheadDays int) ([]shared.DueReservation, error) {
	return nil, nil
}

func (s *stubReservationQueries) ListOpenRequests(ctx context.Context) ([]*queries.RequestView, error) {
	return nil, nil
}

func (s *stubReservationQueries) MyRequests(ctx context.Context, borrowerID uuid.UUID) ([]*queries.RequestView, error) {
	return nil, nil
}

func (s *stubReservationQueries) GetRequest(ctx context.Context, id uuid.UUID) (*queries.RequestView, error) {
	return nil, nil
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	borrow  *stubBorrowCommands
	handler *api.ReservationHandler
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.borrow = &stubBorrowCommands{}
	s.handler = api.NewReservationHandler(s.borrow, &stubReservationQueries{})

	userID := uuid.New()
	s.router.POST("/reservations", func(c *gin.Context) {
		c.Set("user_id", userID)
		s.handler.Reserve(c)
	})
	s.router.POST("/reservations/:id/return", s.handler.Return)
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ReservationHandlerTestSuite) TestReserve() {
	validBody := map[string]any{
		"pool_name":  "Canon 5D",
		"quantity":   2,
		"start_date": "2024-06-10",
		"end_date":   "2024-06-12",
	}

	s.Run("success: 201 with reservation ids", func() {
		ids := []uuid.UUID{uuid.New(), uuid.New()}
		s.borrow.reserveErr = nil
		s.borrow.reserveResult = &commands.ReserveResult{
			ReservationIDs: ids,
			UnitIDs:        []uuid.UUID{uuid.New(), uuid.New()},
			StartDate:      time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
		}

		rec := s.perform(http.MethodPost, "/reservations", validBody)

		s.Equal(http.StatusCreated, rec.Code)
		var resp struct {
			ReservationIDs []uuid.UUID `json:"reservation_ids"`
			StartDate      string      `json:"start_date"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(ids, resp.ReservationIDs)
		s.Equal("2024-06-10", resp.StartDate)
	})

	s.Run("error: 409 with availability detail when pool is exhausted", func() {
		s.borrow.reserveErr = &commands.InsufficientAvailabilityError{
			PoolName:  "Canon 5D",
			Available: 1,
			Requested: 2,
		}

		rec := s.perform(http.MethodPost, "/reservations", validBody)

		s.Equal(http.StatusConflict, rec.Code)
		var resp map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.EqualValues(1, resp["available"])
		s.EqualValues(2, resp["requested"])
	})

	s.Run("error: 403 for banned borrower", func() {
		until := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
		s.borrow.reserveErr = &commands.BannedError{BanUntil: &until, Reason: "3 strikes"}

		rec := s.perform(http.MethodPost, "/reservations", validBody)

		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("error: 404 for unknown pool", func() {
		s.borrow.reserveErr = commands.ErrPoolNotFound

		rec := s.perform(http.MethodPost, "/reservations", validBody)

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 400 for malformed date", func() {
		s.borrow.reserveErr = nil
		body := map[string]any{
			"pool_name":  "Canon 5D",
			"quantity":   1,
			"start_date": "06/10/2024",
			"end_date":   "2024-06-12",
		}

		rec := s.perform(http.MethodPost, "/reservations", body)

		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 400 for missing quantity", func() {
		s.borrow.reserveErr = nil
		body := map[string]any{
			"pool_name":  "Canon 5D",
			"start_date": "2024-06-10",
			"end_date":   "2024-06-12",
		}

		rec := s.perform(http.MethodPost, "/reservations", body)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestReturn() {
	s.Run("success: 200 with days late", func() {
		id := uuid.New()
		s.borrow.returnErr = nil
		s.borrow.returnResult = &commands.ReturnResult{
			ReservationID: id,
			ReturnedAt:    time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC),
			DaysLate:      2,
		}

		rec := s.perform(http.MethodPost, "/reservations/"+id.String()+"/return", nil)

		s.Equal(http.StatusOK, rec.Code)
		var resp struct {
			DaysLate int `json:"days_late"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(2, resp.DaysLate)
	})

	s.Run("error: 404 for unknown reservation", func() {
		s.borrow.returnErr = commands.ErrReservationNotFound

		rec := s.perform(http.MethodPost, "/reservations/"+uuid.NewString()+"/return", nil)

		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 409 when already returned", func() {
		s.borrow.returnErr = commands.ErrAlreadyReturned

		rec := s.perform(http.MethodPost, "/reservations/"+uuid.NewString()+"/return", nil)

		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 400 for malformed id", func() {
		rec := s.perform(http.MethodPost, "/reservations/not-a-uuid/return", nil)

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
