package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"admin_console/internal/domain"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func ptr[T any](v T) *T { return &v }

// fakeCatalog is an in-memory product store.
type fakeCatalog struct {
	mu       sync.Mutex
	products []domain.Product
	listErr  error
	saveErr  error
	uploads  []string
	nextID   int
}

func (f *fakeCatalog) List(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeCatalog) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.nextID++
	p.StorageID = "new-" + strconv.Itoa(f.nextID)
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeCatalog) Update(_ context.Context, id string, p domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for i := range f.products {
		if f.products[i].StorageID == id {
			f.products[i] = p
			return &p, nil
		}
	}
	return nil, &domain.TransportError{Op: "update product", StatusCode: 404, Message: "Product not found"}
}

func (f *fakeCatalog) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].StorageID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return &domain.TransportError{Op: "delete product", StatusCode: 404, Message: "Product not found"}
}

func (f *fakeCatalog) UploadAsset(_ context.Context, a domain.Asset) (string, error) {
	body, err := io.ReadAll(a.Body)
	if err != nil {
		return "", &domain.UploadError{Message: "Upload failed", Err: err}
	}
	if len(body) == 0 {
		return "", &domain.UploadError{Message: "Empty file"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, a.Filename)
	return "https://cdn.example/" + a.Filename, nil
}

// fakeOrders is an in-memory order store.
type fakeOrders struct {
	mu        sync.Mutex
	orders        []domain.Order
	updateErr     error
	lastPaymentID *string
}

func (f *fakeOrders) List(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeOrders) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
	return &o, nil
}

func (f *fakeOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.StorageID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrders) Search(_ context.Context, q domain.SearchQuery) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if (q.Email != "" && o.User.Email == q.Email) || (q.Mobile != "" && o.User.Phone == q.Mobile) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, paymentID *string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPaymentID = paymentID
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.orders {
		if f.orders[i].StorageID == id {
			f.orders[i].Status = status
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrders) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].StorageID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type testConsole struct {
	router  *gin.Engine
	catalog *fakeCatalog
	orders  *fakeOrders
	feed    *NotificationFeed
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()
	logger := newTestLogger()
	tc := &testConsole{
		catalog: &fakeCatalog{products: []domain.Product{
			{StorageID: "p1", ProductID: "TBP10001", Title: "Cotton Salwar", Category: domain.CategoryWomen, Price: ptr(800.0), OriginalPrice: ptr(1000.0), Stock: 3},
			{StorageID: "p2", ProductID: "TBP10002", Title: "Silk Kurti", Category: domain.CategoryWomen, Price: ptr(1200.0), Stock: 1},
		}},
		orders: &fakeOrders{orders: []domain.Order{
			{StorageID: "o1", OrderID: "ORD-1", Status: domain.StatusPending, User: domain.Customer{Email: "a@example.com", Phone: "9000000001"}},
			{StorageID: "o2", OrderID: "ORD-2", Status: domain.StatusShipped, User: domain.Customer{Email: "b@example.com"}},
		}},
		feed: NewNotificationFeed(0, logger),
	}

	catalogSession := usecase.NewCatalogSession(tc.catalog, tc.feed, usecase.CatalogOptions{PageSize: 6, ReloadOnCancel: true, ResetPageOnFilter: true}, logger)
	orderSession := usecase.NewOrderSession(tc.orders, tc.feed, logger)
	require.NoError(t, catalogSession.Reload(context.Background()))
	require.NoError(t, orderSession.Refresh(context.Background()))

	tc.router = gin.New()
	RegisterSystemRoutes(tc.router, nil)
	tc.feed.RegisterRoutes(tc.router)
	NewCatalogHandler(catalogSession, logger).RegisterRoutes(tc.router)
	NewOrderHandler(orderSession, logger).RegisterRoutes(tc.router)
	return tc
}

func (tc *testConsole) do(t *testing.T, method, target string, body io.Reader, contentType string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}
