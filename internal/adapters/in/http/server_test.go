package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	server "orderentry/internal/adapters/in/http"
	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFinder struct{ mock.Mock }

func (m *MockFinder) HandleByUUID(ctx context.Context, q queries.GetOrderByUUIDQuery) (queries.OrderResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.OrderResponse), args.Error(1)
}

func (m *MockFinder) HandleByOrderNumber(
	ctx context.Context,
	q queries.GetOrderByOrderNumberQuery,
) (queries.OrderResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.OrderResponse), args.Error(1)
}

type MockActive struct{ mock.Mock }

func (m *MockActive) Handle(ctx context.Context, q queries.GetActiveOrdersQuery) ([]queries.OrderResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.OrderResponse), args.Error(1)
}

type MockHistory struct{ mock.Mock }

func (m *MockHistory) HandleByConcept(
	ctx context.Context,
	q queries.GetOrderHistoryByConceptQuery,
) ([]queries.OrderResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.OrderResponse), args.Error(1)
}

func (m *MockHistory) HandleByOrderNumber(
	ctx context.Context,
	q queries.GetOrderHistoryByOrderNumberQuery,
) ([]queries.OrderResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]queries.OrderResponse), args.Error(1)
}

type MockDiscontinuer struct{ mock.Mock }

func (m *MockDiscontinuer) Handle(ctx context.Context, cmd commands.DiscontinueOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPurger struct{ mock.Mock }

func (m *MockPurger) Handle(ctx context.Context, cmd commands.PurgeOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type fixture struct {
	e           *echo.Echo
	finder      *MockFinder
	active      *MockActive
	history     *MockHistory
	discontinue *MockDiscontinuer
	purge       *MockPurger
}

func newFixture() *fixture {
	f := &fixture{
		e:           echo.New(),
		finder:      new(MockFinder),
		active:      new(MockActive),
		history:     new(MockHistory),
		discontinue: new(MockDiscontinuer),
		purge:       new(MockPurger),
	}
	s := server.NewServer(f.discontinue, f.purge, f.finder, f.active, f.history)
	s.RegisterRoutes(f.e.Group("/api/v1"))
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.finder.AssertExpectations(t)
	f.active.AssertExpectations(t)
	f.history.AssertExpectations(t)
	f.discontinue.AssertExpectations(t)
	f.purge.AssertExpectations(t)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) server.Error {
	t.Helper()
	var body server.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetOrder(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("found", func(t *testing.T) {
		f := newFixture()
		f.finder.On("HandleByUUID", mock.Anything, mock.MatchedBy(func(q queries.GetOrderByUUIDQuery) bool {
			return q.ID().IsEqual(id)
		})).Return(queries.OrderResponse{UUID: id.String(), OrderNumber: "ORD-1"}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body queries.OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ORD-1", body.OrderNumber)
		f.assertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.finder.On("HandleByUUID", mock.Anything, mock.Anything).
			Return(queries.OrderResponse{}, errs.NewObjectNotFoundError("order", id.String())).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.assertExpectations(t)
	})

	t.Run("infrastructure failure", func(t *testing.T) {
		f := newFixture()
		f.finder.On("HandleByUUID", mock.Anything, mock.Anything).
			Return(queries.OrderResponse{}, errors.New("connection refused")).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestGetOrderByNumber(t *testing.T) {
	f := newFixture()
	f.finder.On("HandleByOrderNumber", mock.Anything, mock.MatchedBy(func(q queries.GetOrderByOrderNumberQuery) bool {
		return q.OrderNumber() == "ORD-7"
	})).Return(queries.OrderResponse{OrderNumber: "ORD-7"}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/number/ORD-7", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.assertExpectations(t)
}

func TestGetOrderHistoryByNumber(t *testing.T) {
	f := newFixture()
	chain := []queries.OrderResponse{{OrderNumber: "ORD-2"}, {OrderNumber: "ORD-1"}}
	f.history.On("HandleByOrderNumber", mock.Anything, mock.MatchedBy(func(q queries.GetOrderHistoryByOrderNumberQuery) bool {
		return q.OrderNumber() == "ORD-2"
	})).Return(chain, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/number/ORD-2/history", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []queries.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, chain, body)
	f.assertExpectations(t)
}

func TestGetActiveOrders(t *testing.T) {
	patient := kernel.NewUUID()
	orderType := kernel.NewUUID()
	careSetting := kernel.NewUUID()
	asOf := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("all filters", func(t *testing.T) {
		f := newFixture()
		f.active.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetActiveOrdersQuery) bool {
			return q.Patient().IsEqual(patient) &&
				q.OrderType() != nil && q.OrderType().IsEqual(orderType) &&
				q.CareSetting() != nil && q.CareSetting().IsEqual(careSetting) &&
				q.AsOf() != nil && q.AsOf().Equal(asOf)
		})).Return([]queries.OrderResponse{{OrderNumber: "ORD-1"}}, nil).Once()

		target := "/api/v1/patients/" + patient.String() + "/orders/active?orderType=" + orderType.String() +
			"&careSetting=" + careSetting.String() + "&asOf=" + asOf.Format(time.RFC3339)
		rec := f.do(http.MethodGet, target, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		f.assertExpectations(t)
	})

	t.Run("no filters", func(t *testing.T) {
		f := newFixture()
		f.active.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetActiveOrdersQuery) bool {
			return q.OrderType() == nil && q.CareSetting() == nil && q.AsOf() == nil
		})).Return([]queries.OrderResponse{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/patients/"+patient.String()+"/orders/active", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
		f.assertExpectations(t)
	})

	t.Run("bad asOf", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodGet, "/api/v1/patients/"+patient.String()+"/orders/active?asOf=yesterday", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "asOf")
		f.assertExpectations(t)
	})
}

func TestGetOrderHistoryByConcept(t *testing.T) {
	f := newFixture()
	patient := kernel.NewUUID()
	concept := kernel.NewUUID()
	f.history.On("HandleByConcept", mock.Anything, mock.MatchedBy(func(q queries.GetOrderHistoryByConceptQuery) bool {
		return q.Patient().IsEqual(patient) && q.Concept().IsEqual(concept)
	})).Return([]queries.OrderResponse{{OrderNumber: "ORD-3"}}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/patients/"+patient.String()+"/concepts/"+concept.String()+"/orders", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.assertExpectations(t)
}

func TestDiscontinueOrder(t *testing.T) {
	target := kernel.NewUUID()
	orderer := kernel.NewUUID()

	t.Run("created", func(t *testing.T) {
		f := newFixture()
		dc := discontinuation(t, target)
		f.discontinue.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.DiscontinueOrderCommand) bool {
			return cmd.OrderID().IsEqual(target) &&
				cmd.Reason().NonCoded == "resolved" &&
				cmd.Orderer() != nil && cmd.Orderer().ID.IsEqual(orderer)
		})).Return(dc, nil).Once()

		body := `{"reason":"resolved","ordererId":"` + orderer.String() + `"}`
		rec := f.do(http.MethodPost, "/api/v1/orders/"+target.String()+"/discontinue", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got server.Discontinued
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, dc.UUID().String(), got.UUID)
		assert.Equal(t, "ORD-DC", got.OrderNumber)
		assert.Equal(t, target.String(), got.PreviousOrder)
		f.assertExpectations(t)
	})

	t.Run("missing reason", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+target.String()+"/discontinue", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.assertExpectations(t)
	})

	t.Run("lifecycle rejection", func(t *testing.T) {
		f := newFixture()
		f.discontinue.On("Handle", mock.Anything, mock.Anything).
			Return(nil, &order.TerminalPreviousOrderError{}).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+target.String()+"/discontinue", `{"reason":"resolved"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		f.assertExpectations(t)
	})
}

func TestPurgeOrder(t *testing.T) {
	id := kernel.NewUUID()

	t.Run("cascade", func(t *testing.T) {
		f := newFixture()
		f.purge.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PurgeOrderCommand) bool {
			return cmd.OrderID().IsEqual(id) && cmd.Cascade()
		})).Return(nil).Once()

		rec := f.do(http.MethodDelete, "/api/v1/orders/"+id.String()+"?cascade=true", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.assertExpectations(t)
	})

	t.Run("detach by default", func(t *testing.T) {
		f := newFixture()
		f.purge.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PurgeOrderCommand) bool {
			return !cmd.Cascade()
		})).Return(nil).Once()

		rec := f.do(http.MethodDelete, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.assertExpectations(t)
	})

	t.Run("bad cascade flag", func(t *testing.T) {
		f := newFixture()

		rec := f.do(http.MethodDelete, "/api/v1/orders/"+id.String()+"?cascade=maybe", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.assertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture()
		f.purge.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewObjectNotFoundError("order", id.String())).Once()

		rec := f.do(http.MethodDelete, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// discontinuation restores a saved DISCONTINUE order pointing at previous.
func discontinuation(t *testing.T, previous kernel.UUID) *order.Order {
	t.Helper()
	patient := &clinical.Patient{ID: kernel.NewUUID()}
	start := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

	d := order.NewDraft(order.KindGeneric)
	d.OrderNumber = "ORD-DC"
	d.SetEncounter(&clinical.Encounter{ID: kernel.NewUUID(), Patient: patient})
	d.Concept = &clinical.Concept{ID: kernel.NewUUID(), Class: "Test"}
	d.CareSetting = &clinical.CareSetting{ID: kernel.NewUUID(), Name: "OUTPATIENT"}
	d.StartDate = &start
	d.Action = order.ActionDiscontinue
	d.PreviousOrder = &previous

	o, err := order.Restore(2, *d)
	require.NoError(t, err)
	return o
}
