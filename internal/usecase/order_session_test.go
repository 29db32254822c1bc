package usecase

import (
	"context"
	"testing"

	"admin_console/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []domain.Order {
	return []domain.Order{
		{StorageID: "o1", OrderID: "ORD-1", Status: domain.StatusPending, TotalAmount: 800, Payment: domain.Payment{Status: "Paid", PaymentID: ptr("pay_1")}},
		{StorageID: "o2", OrderID: "ORD-2", Status: domain.StatusShipped, TotalAmount: 1500},
		{StorageID: "o3", OrderID: "ORD-3", Status: domain.StatusPending, TotalAmount: 300},
	}
}

func loadedOrderSession(t *testing.T, gw *MockOrderGateway) (*OrderSession, *notificationLog) {
	t.Helper()
	notes := &notificationLog{}
	s := NewOrderSession(gw, notes, newTestLogger())
	require.NoError(t, s.Refresh(context.Background()))
	return s, notes
}

func TestOrderSession_Refresh(t *testing.T) {
	gw := new(MockOrderGateway)
	gw.On("List", mock.Anything).Return(sampleOrders(), nil).Once()
	gw.On("List", mock.Anything).Return(nil, &domain.TransportError{Op: "list orders", Message: "Failed to fetch orders"}).Once()

	s := NewOrderSession(gw, nil, newTestLogger())
	assert.Equal(t, OrdersLoading, s.State())

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, OrdersReady, s.State())
	assert.Len(t, s.Orders(), 3)

	assert.Error(t, s.Refresh(context.Background()))
	assert.Equal(t, OrdersReady, s.State())
	assert.Len(t, s.Orders(), 3)
}

func TestOrderSession_SetStatus(t *testing.T) {
	t.Run("success refreshes and carries the payment id", func(t *testing.T) {
		gw := new(MockOrderGateway)
		gw.On("List", mock.Anything).Return(sampleOrders(), nil).Once()
		updated := sampleOrders()
		updated[0].Status = domain.StatusConfirmed
		gw.On("UpdateStatus", mock.Anything, "o1", domain.StatusConfirmed, ptr("pay_1")).Return(&updated[0], nil).Once()
		gw.On("List", mock.Anything).Return(updated, nil).Once()

		s, notes := loadedOrderSession(t, gw)
		got, err := s.SetStatus(context.Background(), "o1", domain.StatusConfirmed, nil)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, got.Status)
		assert.Equal(t, domain.StatusConfirmed, s.Orders()[0].Status)
		assert.Equal(t, "Order status updated to Confirmed", notes.Last().Message)
		gw.AssertExpectations(t)
	})

	t.Run("order without payment id sends null", func(t *testing.T) {
		gw := new(MockOrderGateway)
		gw.On("List", mock.Anything).Return(sampleOrders(), nil)
		gw.On("UpdateStatus", mock.Anything, "o2", domain.StatusDelivered, (*string)(nil)).Return(nil, nil).Once()

		s, _ := loadedOrderSession(t, gw)
		got, err := s.SetStatus(context.Background(), "o2", domain.StatusDelivered, nil)

		require.NoError(t, err)
		assert.Equal(t, "o2", got.StorageID)
		gw.AssertExpectations(t)
	})

	t.Run("explicit payment id wins over the loaded one", func(t *testing.T) {
		gw := new(MockOrderGateway)
		gw.On("List", mock.Anything).Return(sampleOrders(), nil)
		gw.On("UpdateStatus", mock.Anything, "o1", domain.StatusConfirmed, ptr("pay_override")).Return(nil, nil).Once()
		gw.On("UpdateStatus", mock.Anything, "o2", domain.StatusConfirmed, ptr("pay_new")).Return(nil, nil).Once()

		s, _ := loadedOrderSession(t, gw)

		_, err := s.SetStatus(context.Background(), "o1", domain.StatusConfirmed, ptr("pay_override"))
		require.NoError(t, err)
		_, err = s.SetStatus(context.Background(), "o2", domain.StatusConfirmed, ptr("pay_new"))
		require.NoError(t, err)
		gw.AssertExpectations(t)
	})

	t.Run("failure leaves the list unchanged", func(t *testing.T) {
		gw := new(MockOrderGateway)
		gw.On("List", mock.Anything).Return(sampleOrders(), nil).Once()
		gw.On("UpdateStatus", mock.Anything, "o1", domain.StatusShipped, mock.Anything).
			Return(nil, &domain.TransportError{Op: "update order status", StatusCode: 500, Message: "Failed to update status"}).Once()

		s, notes := loadedOrderSession(t, gw)
		_, err := s.SetStatus(context.Background(), "o1", domain.StatusShipped, nil)

		require.Error(t, err)
		assert.Equal(t, domain.StatusPending, s.Orders()[0].Status)
		assert.Equal(t, domain.NotifyError, notes.Last().Level)
		gw.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("unknown status is rejected locally", func(t *testing.T) {
		gw := new(MockOrderGateway)
		s := NewOrderSession(gw, nil, newTestLogger())

		_, err := s.SetStatus(context.Background(), "o1", "Lost", nil)

		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
		gw.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderSession_Detail(t *testing.T) {
	gw := new(MockOrderGateway)
	gw.On("List", mock.Anything).Return(sampleOrders(), nil).Once()
	gw.On("List", mock.Anything).Return(sampleOrders()[1:], nil).Once()

	s, _ := loadedOrderSession(t, gw)
	assert.Nil(t, s.Detail())

	o, err := s.SelectForDetail("o1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", o.OrderID)
	assert.Equal(t, "ORD-1", s.Detail().OrderID)

	_, err = s.SelectForDetail("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "ORD-1", s.Detail().OrderID)

	// The selected order disappears from the refreshed list.
	require.NoError(t, s.Refresh(context.Background()))
	assert.Nil(t, s.Detail())

	_, err = s.SelectForDetail("o2")
	require.NoError(t, err)
	s.ClearDetail()
	assert.Nil(t, s.Detail())
}

func TestOrderSession_LookupAndSearch(t *testing.T) {
	gw := new(MockOrderGateway)
	gw.On("Get", mock.Anything, "o9").Return(nil, domain.ErrNotFound)
	gw.On("Get", mock.Anything, "o1").Return(&sampleOrders()[0], nil)
	query := domain.SearchQuery{Email: "a@b.c"}
	gw.On("Search", mock.Anything, query).Return(sampleOrders()[:1], nil)

	notes := &notificationLog{}
	s := NewOrderSession(gw, notes, newTestLogger())

	_, err := s.Lookup(context.Background(), "o9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, notes.All())

	o, err := s.Lookup(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", o.OrderID)

	found, err := s.Search(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Empty(t, s.Orders())
}

func TestOrderSession_Remove(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		gw := new(MockOrderGateway)
		s := NewOrderSession(gw, nil, newTestLogger())

		deleted, err := s.Remove(context.Background(), "o1", domain.Answer(false))

		require.NoError(t, err)
		assert.False(t, deleted)
		gw.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("confirmed clears the detail selection", func(t *testing.T) {
		gw := new(MockOrderGateway)
		gw.On("List", mock.Anything).Return(sampleOrders(), nil).Once()
		gw.On("Delete", mock.Anything, "o1").Return(nil).Once()
		gw.On("List", mock.Anything).Return(sampleOrders()[1:], nil).Once()

		s, _ := loadedOrderSession(t, gw)
		_, err := s.SelectForDetail("o1")
		require.NoError(t, err)

		deleted, err := s.Remove(context.Background(), "o1", domain.Answer(true))

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Nil(t, s.Detail())
		assert.Len(t, s.Orders(), 2)
		gw.AssertExpectations(t)
	})
}

func TestOrderSession_StatusCounts(t *testing.T) {
	gw := new(MockOrderGateway)
	gw.On("List", mock.Anything).Return(sampleOrders(), nil)
	s, _ := loadedOrderSession(t, gw)

	counts := s.StatusCounts()

	require.Len(t, counts, len(domain.OrderStatuses))
	assert.Equal(t, StatusCount{Status: domain.StatusPending, Count: 2}, counts[0])
	assert.Equal(t, StatusCount{Status: domain.StatusShipped, Count: 1}, counts[4])
	assert.Equal(t, StatusCount{Status: domain.StatusRefundCompleted, Count: 0}, counts[10])
}
