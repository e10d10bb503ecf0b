//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/handler/api"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/common/testutil"
	commandsmock "booking-engine/tests/mock/commands"
	queriesmock "booking-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// withActor stands in for the auth middleware.
func withActor(actor *user.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("actor", *actor)
		c.Next()
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockCommands  *commandsmock.MockBookingCommands
	mockLifecycle *commandsmock.MockLifecycleCommands
	mockQueries   *queriesmock.MockBookingQueries
	actor         user.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockLifecycle = commandsmock.NewMockLifecycleCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.actor = builder.NewActorBuilder().Build()
	h := api.NewBookingHandler(s.mockCommands, s.mockLifecycle, s.mockQueries)

	auth := withActor(&s.actor)
	s.router.POST("/bookings", auth, h.Create)
	s.router.GET("/bookings/:id", auth, h.Get)
	s.router.PATCH("/bookings/:id", auth, h.Update)
	s.router.POST("/bookings/:id/complete", auth, h.Complete)
	s.router.POST("/bookings/:id/cancel", auth, h.Cancel)
	s.router.GET("/bookings/:id/settlement", auth, h.GetSettlement)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func rfc3339(hour, minute int) string {
	return builder.At(hour, minute).Format(time.RFC3339)
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *BookingHandlerTestSuite) newBooking(bb *builder.BookingBuilder) *booking.Booking {
	b, err := bb.BuildDomain(builder.At(8, 0))
	s.Require().NoError(err)
	return b
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	bb := builder.NewBookingBuilder()
	reqBody := bb.BuildCreateRequestDTO()
	created := s.newBooking(bb)

	s.Run("success: returns 201 with the booking", func() {
		s.mockCommands.EXPECT().
			CreateBooking(gomock.Any(), s.actor, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ user.Actor, got commands.CreateBookingInput) (*booking.Booking, error) {
				if diff := cmp.Diff(bb.BuildCreateInput(), got); diff != "" {
					s.Failf("input mismatch", "(-want +got):\n%s", diff)
				}
				return created, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.ID(), body.ID)
		s.Equal("40.00", body.ServiceTotal)
		s.Equal("scheduled", body.Status)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + created.ID().String()})
	})

	cases := []testCaseBooking{
		{name: "missing branch_id", mutate: testutil.Field("branch_id", nil), expectCode: http.StatusBadRequest},
		{name: "missing customer_id", mutate: testutil.Field("customer_id", nil), expectCode: http.StatusBadRequest},
		{name: "missing service_total", mutate: testutil.Field("service_total", nil), expectCode: http.StatusBadRequest},
		{name: "non-numeric service_total", mutate: testutil.Field("service_total", "forty"), expectCode: http.StatusBadRequest},
		{name: "inverted window", mutate: testutil.Field("window", map[string]any{
			"from": rfc3339(11, 0), "to": rfc3339(10, 0),
		}), expectCode: http.StatusBadRequest},
	}
	for _, tc := range cases {
		s.Run("error: "+tc.name, func() {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", testutil.DtoMap(s.T(), reqBody, tc.mutate), "bearer-token")
			s.Equal(tc.expectCode, rec.Code, rec.Body.String())
		})
	}

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: 409 when the slot is taken", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("staff busy"), errs.ErrConflict))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Slot is not available")
	})
}

// ================================================================================
// TestUpdate
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdate_SelectsVariant() {
	b := s.newBooking(builder.NewBookingBuilder())
	url := "/bookings/" + b.ID().String()
	staffID := uuid.New()

	cases := []struct {
		name string
		body map[string]any
		want commands.BookingUpdate
	}{
		{
			name: "note only",
			body: map[string]any{"note": "late"},
			want: commands.StaffBookingUpdate{Note: ptr.Of("late")},
		},
		{
			name: "window and staff",
			body: map[string]any{
				"window":   map[string]any{"from": rfc3339(12, 0), "to": rfc3339(13, 0)},
				"staff_id": staffID.String(),
			},
			want: commands.BranchAdminBookingUpdate{Window: ptr.Of(builder.Window(12, 0, 13, 0)), StaffID: &staffID},
		},
		{
			name: "clear staff",
			body: map[string]any{"clear_staff": true},
			want: commands.BranchAdminBookingUpdate{ClearStaff: true},
		},
		{
			name: "price",
			body: map[string]any{"service_total": "35.00"},
			want: commands.AdminBookingUpdate{ServiceTotal: ptr.Of(decimal.RequireFromString("35.00"))},
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().
				UpdateBooking(gomock.Any(), s.actor, b.ID(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ user.Actor, _ uuid.UUID, got commands.BookingUpdate) (*commands.UpdateBookingResult, error) {
					s.IsType(tc.want, got)
					if diff := cmp.Diff(tc.want, got); diff != "" {
						s.Failf("update mismatch", "(-want +got):\n%s", diff)
					}
					return &commands.UpdateBookingResult{Booking: b}, nil
				})

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, tc.body, "bearer-token")

			var body resdto.BookingWithMatchesResponse
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
			s.Equal(b.ID(), body.Booking.ID)
			s.Empty(body.Matches)
		})
	}
}

func (s *BookingHandlerTestSuite) TestUpdate_Errors() {
	id := uuid.New()

	s.Run("invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/bookings/not-a-uuid", map[string]any{"note": "x"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	errCases := []struct {
		name       string
		err        error
		expectCode int
		expectMsg  string
	}{
		{"forbidden", errs.Mark(errs.New("role"), errs.ErrForbidden), http.StatusForbidden, "Forbidden"},
		{"not found", errs.Mark(errs.New("missing"), errs.ErrNotFound), http.StatusNotFound, "Not found"},
		{"invalid state", errs.Mark(errs.New("settled"), errs.ErrInvalidState), http.StatusConflict, "Invalid state"},
		{"lock busy", errs.Mark(errs.New("timeout"), errs.ErrLockUnavailable), http.StatusServiceUnavailable, "Booking is busy"},
		{"unclassified", errs.New("boom"), http.StatusInternalServerError, "Internal error"},
	}
	for _, tc := range errCases {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().UpdateBooking(gomock.Any(), gomock.Any(), id, gomock.Any()).Return(nil, tc.err)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/bookings/"+id.String(), map[string]any{"note": "x"}, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMsg)
		})
	}
}

// ================================================================================
// TestComplete
// ================================================================================

// expectCompletion checks the completion variant the handler derived from the request.
func (s *BookingHandlerTestSuite) expectCompletion(
	want commands.CompletionInput,
	result *commands.CompletionResult,
) func(context.Context, user.Actor, uuid.UUID, commands.CompletionInput) (*commands.CompletionResult, error) {
	return func(_ context.Context, _ user.Actor, _ uuid.UUID, got commands.CompletionInput) (*commands.CompletionResult, error) {
		s.IsType(want, got)
		if diff := cmp.Diff(want, got); diff != "" {
			s.Failf("completion mismatch", "(-want +got):\n%s", diff)
		}
		return result, nil
	}
}

func (s *BookingHandlerTestSuite) settled(bookingID uuid.UUID, cb *builder.CompletionBuilder) *settlement.Settlement {
	st, err := settlement.Reconcile(bookingID, decimal.RequireFromString("40.00"), cb.BuildRequest(), builder.At(11, 0))
	s.Require().NoError(err)
	return st
}

func (s *BookingHandlerTestSuite) TestComplete() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/complete"

	s.Run("success: priced completion", func() {
		cb := builder.NewCompletionBuilder()
		s.mockLifecycle.EXPECT().
			CompleteBooking(gomock.Any(), s.actor, bookingID, gomock.Any()).
			DoAndReturn(s.expectCompletion(cb.BuildPriced(), &commands.CompletionResult{Settlement: s.settled(bookingID, cb)}))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, cb.BuildRequestDTO(), "bearer-token")

		var body resdto.CompletionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("completed", body.Settlement.Status)
		s.Equal("50.00", body.Settlement.GrandTotal)
		s.Equal("10.00", body.Settlement.ProductsTotal)
		s.Empty(body.Matches)
	})

	s.Run("success: standard completion without service_total", func() {
		cb := builder.NewCompletionBuilder().WithoutServiceTotal()
		matchedEntry := uuid.New()
		s.mockLifecycle.EXPECT().
			CompleteBooking(gomock.Any(), s.actor, bookingID, gomock.Any()).
			DoAndReturn(s.expectCompletion(cb.BuildStandard(), &commands.CompletionResult{
				Settlement: s.settled(bookingID, cb),
				Matches: []commands.MatchOutcome{{
					Kind:    commands.MatchProposed,
					EntryID: matchedEntry,
					Window:  builder.Window(10, 0, 11, 0),
				}},
			}))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, cb.BuildRequestDTO(), "bearer-token")

		var body resdto.CompletionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Matches, 1)
		s.Equal("proposed", body.Matches[0].Kind)
		s.Equal(matchedEntry, body.Matches[0].EntryID)
	})

	s.Run("error: 422 with violations", func() {
		cb := builder.NewCompletionBuilder()
		violations := []settlement.Violation{{Field: "payments[0].amount", Code: settlement.CodeNonPositive, Message: "must be positive"}}
		s.mockLifecycle.EXPECT().CompleteBooking(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.Mark(&settlement.ValidationError{Violations: violations}, errs.ErrInvalidCompletionData))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, cb.BuildRequestDTO(), "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Invalid completion data")
		var body map[string]any
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &body))
		s.Equal([]any{map[string]any{
			"field": "payments[0].amount", "code": "non_positive", "message": "must be positive",
		}}, body["detail"])
	})

	s.Run("error: 422 payment mismatch carries both totals", func() {
		cb := builder.NewCompletionBuilder()
		s.mockLifecycle.EXPECT().CompleteBooking(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.Mark(&settlement.PaymentMismatchError{
				Expected: decimal.RequireFromString("50"),
				Actual:   decimal.RequireFromString("45"),
			}, errs.ErrPaymentMismatch))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, cb.BuildRequestDTO(), "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Payment mismatch")
		var body map[string]any
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &body))
		s.Equal(map[string]any{"expected": "50.00", "actual": "45.00"}, body["detail"])
	})

	s.Run("error: 409 already settled", func() {
		s.mockLifecycle.EXPECT().CompleteBooking(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, errs.Mark(errs.New("settled"), errs.ErrAlreadySettled))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, builder.NewCompletionBuilder().BuildRequestDTO(), "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Booking already settled")
	})

	s.Run("error: 400 on malformed json", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"products": "none"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	b := s.newBooking(builder.NewBookingBuilder())
	s.Require().NoError(b.Cancel(builder.At(9, 0)))
	url := "/bookings/" + b.ID().String() + "/cancel"

	s.Run("with reason", func() {
		s.mockLifecycle.EXPECT().CancelBooking(gomock.Any(), s.actor, b.ID(), "customer called").
			Return(&commands.CancellationResult{Booking: b}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "customer called"}, "bearer-token")

		var body resdto.BookingWithMatchesResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Booking.Status)
	})

	s.Run("without body", func() {
		s.mockLifecycle.EXPECT().CancelBooking(gomock.Any(), s.actor, b.ID(), "").
			Return(&commands.CancellationResult{Booking: b}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})
}

// ================================================================================
// Queries
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	b := s.newBooking(builder.NewBookingBuilder())

	s.mockQueries.EXPECT().GetBooking(gomock.Any(), s.actor, b.ID()).Return(b, nil)
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+b.ID().String(), nil, "bearer-token")

	var body resdto.BookingResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.True(b.Window().From().Equal(body.Window.From))
	s.Equal([]uuid.UUID{}, body.ResourceIDs)
}

func (s *BookingHandlerTestSuite) TestGetSettlement() {
	bookingID := uuid.New()
	st := s.settled(bookingID, builder.NewCompletionBuilder())

	s.mockQueries.EXPECT().GetSettlement(gomock.Any(), s.actor, bookingID).Return(st, nil)
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+bookingID.String()+"/settlement", nil, "bearer-token")

	var body resdto.SettlementResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal(bookingID, body.BookingID)
	s.Require().Len(body.Payments, 1)
	s.Equal(resdto.PaymentLineResponse{Method: "cash", Amount: "50.00"}, body.Payments[0])
	s.WithinDuration(builder.At(11, 0), body.ReconciledAt, time.Second)

	s.mockQueries.EXPECT().GetSettlement(gomock.Any(), s.actor, gomock.Any()).
		Return(nil, errs.Mark(errs.New("no settlement"), errs.ErrNotFound))
	rec = httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+uuid.NewString()+"/settlement", nil, "bearer-token")
	httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
}
