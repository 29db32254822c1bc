package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderState string

const (
	OrdersLoading OrderState = "loading"
	OrdersReady   OrderState = "ready"
)

const orderDeletePrompt = "Are you sure you want to delete this order?"

// StatusCount is the number of loaded orders currently in Status.
type StatusCount struct {
	Status domain.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

// OrderSession owns the loaded order list and the order selected for detail.
// Detail is kept as a storage ID so it always resolves against the current list.
type OrderSession struct {
	gateway  domain.OrderGateway
	notifier domain.Notifier
	log      *logrus.Logger

	mu         sync.Mutex
	state      OrderState
	orders     []domain.Order
	detailID   string
	loadSeq    uint64
	appliedSeq uint64
}

func NewOrderSession(gateway domain.OrderGateway, notifier domain.Notifier, logger *logrus.Logger) *OrderSession {
	if notifier == nil {
		notifier = domain.NotifierFunc(func(domain.Notification) {})
	}
	return &OrderSession{
		gateway:  gateway,
		notifier: notifier,
		log:      logger,
		state:    OrdersLoading,
		orders:   []domain.Order{},
	}
}

// Refresh replaces the order list. The previous list stays on failure.
func (s *OrderSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.state = OrdersLoading
	s.mu.Unlock()

	orders, err := s.gateway.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == s.loadSeq {
		s.state = OrdersReady
	}
	if err != nil {
		s.log.Warnf("Order Session: Refresh failed, keeping %d cached orders: %v", len(s.orders), err)
		s.fail("Failed to fetch orders", err)
		return fmt.Errorf("refresh orders: %w", err)
	}
	if seq < s.appliedSeq {
		s.log.Debugf("Order Session: Dropping stale order list (load %d, applied %d)", seq, s.appliedSeq)
		return nil
	}
	s.appliedSeq = seq
	s.orders = make([]domain.Order, len(orders))
	for i, o := range orders {
		s.orders[i] = o.Clone()
	}
	s.log.Infof("Order Session: Loaded %d orders", len(orders))
	return nil
}

// SetStatus asks the store to move an order to status and refreshes the list on success.
// paymentID is sent as given; when nil the loaded order's payment id is carried over,
// and null is sent if it has none. On failure the loaded list is left untouched.
func (s *OrderSession) SetStatus(ctx context.Context, storageID string, status domain.OrderStatus, paymentID *string) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		err := &domain.ValidationError{
			Op:      "update order status",
			Message: fmt.Sprintf("%q is not a valid order status", status),
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidStatus, err)
	}

	loaded, found := s.find(storageID)
	if paymentID == nil && found && loaded.Payment.PaymentID != nil {
		v := *loaded.Payment.PaymentID
		paymentID = &v
	}

	updated, err := s.gateway.UpdateStatus(ctx, storageID, status, paymentID)
	if err != nil {
		s.log.Errorf("Order Session: Status update of %s to '%s' failed: %v", storageID, status, err)
		s.fail("Failed to update status", err)
		return nil, err
	}
	if found {
		s.log.Infof("Order Session: Order %s for %s moved to '%s'", loaded.OrderID, loaded.User.FullName(), status)
	} else {
		s.log.Infof("Order Session: Order %s moved to '%s'", storageID, status)
	}
	s.notifier.Notify(domain.Notification{Level: domain.NotifySuccess, Message: "Order status updated to " + string(status)})
	_ = s.Refresh(ctx)

	if updated == nil {
		if o, ok := s.find(storageID); ok {
			updated = &o
		}
	}
	return updated, nil
}

// SelectForDetail marks a loaded order as the one shown in detail.
func (s *OrderSession) SelectForDetail(storageID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].StorageID == storageID {
			s.detailID = storageID
			o := s.orders[i].Clone()
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", storageID, domain.ErrNotFound)
}

func (s *OrderSession) ClearDetail() {
	s.mu.Lock()
	s.detailID = ""
	s.mu.Unlock()
}

// Detail resolves the selection against the current list. It returns nil when nothing
// is selected or the selected order disappeared in a refresh.
func (s *OrderSession) Detail() *domain.Order {
	s.mu.Lock()
	id := s.detailID
	s.mu.Unlock()
	if id == "" {
		return nil
	}
	o, ok := s.find(id)
	if !ok {
		return nil
	}
	return &o
}

// Lookup fetches one order straight from the store.
func (s *OrderSession) Lookup(ctx context.Context, storageID string) (*domain.Order, error) {
	order, err := s.gateway.Get(ctx, storageID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.fail("Failed to fetch order", err)
		}
		return nil, err
	}
	return order, nil
}

// Search runs a customer lookup without touching the loaded list.
func (s *OrderSession) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Order, error) {
	orders, err := s.gateway.Search(ctx, query)
	if err != nil {
		s.log.Warnf("Order Session: Search failed: %v", err)
		s.fail("Failed to search orders", err)
		return nil, err
	}
	return orders, nil
}

// Remove deletes an order after confirmation. A declined confirmation returns false, nil.
func (s *OrderSession) Remove(ctx context.Context, storageID string, confirm domain.Confirmer) (bool, error) {
	if confirm == nil {
		return false, errors.New("remove order: no confirmation capability")
	}
	ok, err := confirm.Confirm(ctx, orderDeletePrompt)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		s.log.Infof("Order Session: Delete of %s declined", storageID)
		return false, nil
	}

	if err := s.gateway.Delete(ctx, storageID); err != nil {
		s.log.Errorf("Order Session: Delete of %s failed: %v", storageID, err)
		s.fail("Failed to delete order", err)
		return false, err
	}
	s.log.Infof("Order Session: Deleted order %s", storageID)
	s.notifier.Notify(domain.Notification{Level: domain.NotifySuccess, Message: "Order deleted"})

	s.mu.Lock()
	if s.detailID == storageID {
		s.detailID = ""
	}
	s.mu.Unlock()
	_ = s.Refresh(ctx)
	return true, nil
}

// StatusCounts tallies the loaded orders by status, in display order.
func (s *OrderSession) StatusCounts() []StatusCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	tally := make(map[domain.OrderStatus]int, len(domain.OrderStatuses))
	for _, o := range s.orders {
		tally[o.Status]++
	}
	out := make([]StatusCount, len(domain.OrderStatuses))
	for i, st := range domain.OrderStatuses {
		out[i] = StatusCount{Status: st, Count: tally[st]}
	}
	return out
}

func (s *OrderSession) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

func (s *OrderSession) State() OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *OrderSession) find(storageID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].StorageID == storageID {
			return s.orders[i].Clone(), true
		}
	}
	return domain.Order{}, false
}

func (s *OrderSession) fail(prefix string, err error) {
	msg := prefix
	if detail := domain.UserMessage(err); detail != "" && detail != prefix {
		msg = prefix + ": " + detail
	}
	s.notifier.Notify(domain.Notification{Level: domain.NotifyError, Message: msg})
}
