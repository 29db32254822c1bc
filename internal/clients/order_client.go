package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
)

const ServiceOrders = "orders"

var _ domain.OrderGateway = (*orderHTTPClient)(nil)

type orderHTTPClient struct {
	*httpTransport
}

// NewOrderHTTPClient talks to the order store rooted at baseURL (the store serves /orders).
func NewOrderHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger, opts ...Option) domain.OrderGateway {
	return &orderHTTPClient{
		httpTransport: newTransport(ServiceOrders, baseURL, timeout, logger, opts),
	}
}

func (c *orderHTTPClient) List(ctx context.Context) (orders []domain.Order, err error) {
	defer c.observe("list", time.Now(), &err)

	orders, err = c.fetchList(ctx, "list orders", "/orders")
	if err == nil {
		c.log.Infof("OrderClient: Fetched %d orders", len(orders))
	}
	return orders, err
}

func (c *orderHTTPClient) Search(ctx context.Context, query domain.SearchQuery) (orders []domain.Order, err error) {
	defer c.observe("search", time.Now(), &err)

	if query.IsEmpty() {
		return nil, &domain.ValidationError{Op: "search orders", Message: "email or mobile is required"}
	}
	params := url.Values{}
	if query.Email != "" {
		params.Set("email", query.Email)
	}
	if query.Mobile != "" {
		params.Set("mobile", query.Mobile)
	}

	orders, err = c.fetchList(ctx, "search orders", "/orders/user/search?"+params.Encode())
	if err == nil {
		c.log.Infof("OrderClient: Search matched %d orders", len(orders))
	}
	return orders, err
}

func (c *orderHTTPClient) fetchList(ctx context.Context, op, path string) ([]domain.Order, error) {
	resp, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Message: "Failed to fetch orders", Err: err}
	}
	if !resp.OK() {
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, "Failed to fetch orders")}
	}

	var orders []domain.Order
	if err := json.Unmarshal(resp.Body, &orders); err != nil {
		c.log.Errorf("OrderClient: Failed to decode %s response: %v", op, err)
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: "Failed to fetch orders", Err: err}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (c *orderHTTPClient) Get(ctx context.Context, storageID string) (order *domain.Order, err error) {
	const op = "get order"
	defer c.observe("get", time.Now(), &err)

	resp, err := c.send(ctx, http.MethodGet, "/orders/"+url.PathEscape(storageID), "", nil)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Message: "Order not found", Err: err}
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, "Order not found"), Err: domain.ErrNotFound}
	}
	if !resp.OK() {
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, "Order not found")}
	}

	var out domain.Order
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		c.log.Errorf("OrderClient: Failed to decode order %s: %v", storageID, err)
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: "Order not found", Err: err}
	}
	return &out, nil
}

func (c *orderHTTPClient) Create(ctx context.Context, order domain.Order) (created *domain.Order, err error) {
	defer c.observe("create", time.Now(), &err)
	c.log.Infof("OrderClient: Creating order for %s", order.User.Email)
	return c.write(ctx, "create order", http.MethodPost, "/orders", order, "Failed to create order")
}

type statusUpdate struct {
	Status    domain.OrderStatus `json:"status"`
	PaymentID *string            `json:"paymentId"`
}

func (c *orderHTTPClient) UpdateStatus(ctx context.Context, storageID string, status domain.OrderStatus, paymentID *string) (updated *domain.Order, err error) {
	defer c.observe("update_status", time.Now(), &err)
	c.log.Infof("OrderClient: Updating status of order %s to '%s'", storageID, status)
	return c.write(ctx, "update order status", http.MethodPut, "/orders/"+url.PathEscape(storageID)+"/status",
		statusUpdate{Status: status, PaymentID: paymentID}, "Failed to update order status")
}

func (c *orderHTTPClient) Delete(ctx context.Context, storageID string) (err error) {
	const op = "delete order"
	defer c.observe("delete", time.Now(), &err)

	resp, err := c.send(ctx, http.MethodDelete, "/orders/"+url.PathEscape(storageID), "", nil)
	if err != nil {
		return &domain.TransportError{Op: op, Message: "Failed to delete order", Err: err}
	}
	if !resp.OK() {
		return &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, "Failed to delete order")}
	}
	c.log.Infof("OrderClient: Deleted order %s", storageID)
	return nil
}

// write returns the order echoed by the store when the response carries one.
// Some store versions wrap it as {"order": {...}}, others answer with a bare message.
func (c *orderHTTPClient) write(ctx context.Context, op, method, path string, payload any, fallback string) (*domain.Order, error) {
	body, err := encodeJSON(payload)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Message: fallback, Err: err}
	}
	resp, err := c.send(ctx, method, path, "application/json", body)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Message: fallback, Err: err}
	}
	if !resp.OK() {
		return nil, &domain.TransportError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body, fallback)}
	}

	order, err := decodeOrder(resp.Body)
	if err != nil {
		c.log.Debugf("OrderClient: %s response carried no order: %v", op, err)
		return nil, nil
	}
	return order, nil
}

var errNoOrder = errors.New("no order in response")

func decodeOrder(body []byte) (*domain.Order, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errNoOrder
	}
	var wrapped struct {
		Order *domain.Order `json:"order"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Order != nil {
		return wrapped.Order, nil
	}
	var bare domain.Order
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	if bare.StorageID == "" && bare.OrderID == "" {
		return nil, errNoOrder
	}
	return &bare, nil
}
